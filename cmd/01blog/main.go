// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Command 01blog is the terminal client for the 01Blog platform.
package main

import (
	"fmt"
	"os"

	"github.com/elhaouchomar/01blog/cmd/01blog/cli"
)

func main() {
	if err := cli.Root().Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "01blog: %v\n", err)
		os.Exit(1)
	}
}
