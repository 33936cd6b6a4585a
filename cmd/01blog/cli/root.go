// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the 01blog command tree.
package cli

// Root builds the full command tree.
func Root() *Command {
	return &Command{
		Name:    "01blog",
		Summary: "Command-line client for the 01Blog platform",
		Description: "01blog is a terminal client for the 01Blog publishing platform:\n" +
			"read the feed, publish posts, follow authors, and moderate content.\n\n" +
			"Configuration is read from $BLOG_CONFIG or the default config file;\n" +
			"the session persists between runs.",
		Subcommands: []*Command{
			loginCommand(),
			logoutCommand(),
			registerCommand(),
			whoamiCommand(),
			feedCommand(),
			postCommand(),
			notificationsCommand(),
			followCommand(),
			profileCommand(),
			searchCommand(),
			reportCommand(),
			syncCommand(),
			adminCommand(),
		},
	}
}
