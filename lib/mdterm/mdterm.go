// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

// Package mdterm renders post and comment markdown as styled terminal
// text. It walks the goldmark AST directly because terminal output
// needs accumulate-then-wrap semantics: inline content collects per
// block and is word-wrapped as a unit when the block closes.
package mdterm

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

// parser is shared: the configuration never changes and goldmark
// parsers are safe for concurrent Parse calls.
func parser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return parserInstance
}

// Renderer renders markdown at a fixed width and color profile.
type Renderer struct {
	width   int
	profile termenv.Profile
	lip     *lipgloss.Renderer
}

// New returns a renderer wrapping at width columns. With
// termenv.Ascii the output carries no escape sequences at all.
func New(width int, profile termenv.Profile) *Renderer {
	if width < 20 {
		width = 20
	}
	lip := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))
	lip.SetColorProfile(profile)
	return &Renderer{width: width, profile: profile, lip: lip}
}

// Render converts markdown to terminal text.
func (r *Renderer) Render(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := parser().Parser().Parse(text.NewReader(source))

	walker := &walkState{renderer: r, source: source}
	ast.Walk(document, walker.walk)
	return strings.TrimRight(walker.output.String(), "\n")
}

// walkState carries the mutable state of one Render call.
type walkState struct {
	renderer *Renderer
	source   []byte

	output strings.Builder

	// inline accumulates styled fragments inside the current block;
	// flushed with word-wrap when the block closes.
	inline strings.Builder

	indent     string
	bold       int
	italic     int
	listDepth  int
	listNumber []int // 0 for bullet lists, else next ordinal
	inListItem bool
}

func (w *walkState) style() lipgloss.Style {
	return w.renderer.lip.NewStyle()
}

func (w *walkState) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch typed := node.(type) {
	case *ast.Heading:
		if entering {
			w.inline.Reset()
		} else {
			marker := strings.Repeat("#", typed.Level) + " "
			heading := w.style().Bold(true).Underline(typed.Level == 1).Render(marker + w.inline.String())
			w.writeBlock(heading)
			w.inline.Reset()
		}

	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			w.inline.Reset()
		} else if w.inListItem {
			// List item content lands on the bullet's line.
			w.output.WriteString(strings.TrimRight(w.inline.String(), "\n") + "\n")
			w.inline.Reset()
		} else {
			w.writeBlock(ansi.Wordwrap(w.inline.String(), w.contentWidth(), ""))
			w.inline.Reset()
		}

	case *ast.Text:
		if entering {
			w.appendText(string(typed.Segment.Value(w.source)))
			if typed.SoftLineBreak() {
				w.inline.WriteString(" ")
			} else if typed.HardLineBreak() {
				w.inline.WriteString("\n")
			}
		}

	case *ast.Emphasis:
		if entering {
			if typed.Level >= 2 {
				w.bold++
			} else {
				w.italic++
			}
		} else {
			if typed.Level >= 2 {
				w.bold--
			} else {
				w.italic--
			}
		}

	case *extast.Strikethrough:
		// Rendered as plain text; terminals disagree on strikethrough.

	case *ast.CodeSpan:
		if entering {
			code := string(typed.Text(w.source))
			w.inline.WriteString(w.style().Foreground(lipgloss.Color("173")).Render(code))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		if !entering {
			w.inline.WriteString(w.style().Faint(true).Render(" (" + string(typed.Destination) + ")"))
		}

	case *ast.AutoLink:
		if entering {
			w.inline.WriteString(w.style().Underline(true).Render(string(typed.URL(w.source))))
		}

	case *ast.Image:
		if entering {
			w.inline.WriteString(w.style().Faint(true).Render("[image: " + string(typed.Destination) + "]"))
			return ast.WalkSkipChildren, nil
		}

	case *ast.FencedCodeBlock:
		if entering {
			w.writeBlock(w.highlight(typed))
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			w.writeBlock(w.indentLines(string(blockText(typed, w.source)), "    "))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Blockquote:
		if entering {
			w.indent += "  │ "
		} else {
			w.indent = w.indent[:len(w.indent)-len("  │ ")]
		}

	case *ast.List:
		if entering {
			w.listDepth++
			start := 0
			if typed.IsOrdered() {
				start = typed.Start
			}
			w.listNumber = append(w.listNumber, start)
		} else {
			w.listDepth--
			w.listNumber = w.listNumber[:len(w.listNumber)-1]
		}

	case *ast.ListItem:
		if entering {
			bullet := "  • "
			if n := w.listNumber[len(w.listNumber)-1]; n > 0 {
				bullet = fmt.Sprintf("  %d. ", n)
				w.listNumber[len(w.listNumber)-1]++
			}
			w.output.WriteString(w.indent + strings.Repeat("  ", w.listDepth-1) + bullet)
			w.inline.Reset()
			w.inListItem = true
		} else {
			w.inListItem = false
		}

	case *ast.ThematicBreak:
		if entering {
			w.writeBlock(w.style().Faint(true).Render(strings.Repeat("─", w.contentWidth())))
		}
	}
	return ast.WalkContinue, nil
}

func (w *walkState) appendText(s string) {
	style := w.style()
	if w.bold > 0 {
		style = style.Bold(true)
	}
	if w.italic > 0 {
		style = style.Italic(true)
	}
	if w.bold > 0 || w.italic > 0 {
		s = style.Render(s)
	}
	w.inline.WriteString(s)
}

func (w *walkState) contentWidth() int {
	width := w.renderer.width - ansi.StringWidth(w.indent)
	if width < 10 {
		width = 10
	}
	return width
}

// writeBlock emits rendered block text with the current indent and a
// trailing blank line.
func (w *walkState) writeBlock(s string) {
	if s == "" {
		return
	}
	w.output.WriteString(w.indentLines(s, w.indent))
	w.output.WriteString("\n")
}

func (w *walkState) indentLines(s, indent string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var out strings.Builder
	for _, line := range lines {
		out.WriteString(indent + line + "\n")
	}
	return out.String()
}

// highlight runs a fenced code block through chroma. Without a color
// profile the code is emitted verbatim, indented.
func (w *walkState) highlight(block *ast.FencedCodeBlock) string {
	code := string(blockText(block, w.source))
	language := string(block.Language(w.source))
	if w.renderer.profile == termenv.Ascii || language == "" {
		return w.indentLines(code, "    ")
	}
	var highlighted strings.Builder
	if err := quick.Highlight(&highlighted, code, language, "terminal256", "monokai"); err != nil {
		return w.indentLines(code, "    ")
	}
	return w.indentLines(highlighted.String(), "    ")
}

func blockText(node ast.Node, source []byte) []byte {
	var out []byte
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		out = append(out, segment.Value(source)...)
	}
	return out
}
