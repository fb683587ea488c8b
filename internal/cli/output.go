// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/pdfchat/internal/exchange"
	"github.com/jeranaias/pdfchat/internal/model"
	"github.com/jeranaias/pdfchat/internal/ui/markdown"
	"github.com/jeranaias/pdfchat/internal/ui/styles"
)

// =============================================================================
// PRINTER
// =============================================================================

// printer writes line-mode output. Styling and Markdown rendering are only
// applied when out is a colour terminal.
type printer struct {
	out   io.Writer
	term  *termenv.Output
	md    *markdown.Renderer
	width int
	isTTY bool
	quiet bool

	errStyle    lipgloss.Style
	okStyle     lipgloss.Style
	infoStyle   lipgloss.Style
	labelStyle  lipgloss.Style
	promptStyle lipgloss.Style
}

func newPrinter(out io.Writer, markdownEnabled bool, wordWrap int, quiet bool) *printer {
	profile := colorProfile(out)
	renderer := lipgloss.NewRenderer(out, termenv.WithProfile(profile))
	dark := renderer.HasDarkBackground()

	width := terminalWidth(out)
	if wordWrap > 0 && wordWrap < width {
		width = wordWrap
	}

	tty := isTerminal(out)
	return &printer{
		out:         out,
		term:        termenv.NewOutput(out, termenv.WithProfile(profile)),
		md:          markdown.New(markdownEnabled && tty, markdown.StyleFor(profile, dark)),
		width:       width,
		isTTY:       tty,
		quiet:       quiet,
		errStyle:    renderer.NewStyle().Foreground(styles.Rose).Bold(true),
		okStyle:     renderer.NewStyle().Foreground(styles.Emerald).Bold(true),
		infoStyle:   renderer.NewStyle().Foreground(styles.TextSecondary),
		labelStyle:  renderer.NewStyle().Foreground(styles.Purple).Bold(true),
		promptStyle: renderer.NewStyle().Foreground(styles.Cyan).Bold(true),
	}
}

// answer prints an assistant turn. The failure text is printed as an error.
func (p *printer) answer(turn model.Turn) {
	if turn.Failed {
		fmt.Fprintln(p.out, p.errStyle.Render(styles.MarkError+" "+turn.Content))
		return
	}
	if p.md.Enabled() {
		fmt.Fprintln(p.out, strings.TrimRight(p.md.Render(turn.Content, p.width), "\n"))
		return
	}
	fmt.Fprintln(p.out, turn.Content)
}

// notice prints a blocking notice. Line mode has nothing to block, so the
// notice is just a marked line.
func (p *printer) notice(n exchange.Notice) {
	if n.IsError() {
		fmt.Fprintln(p.out, p.errStyle.Render(styles.MarkError+" "+n.Text))
		return
	}
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.okStyle.Render(styles.MarkOK+" "+n.Text))
}

// info prints secondary output, suppressed by --quiet.
func (p *printer) info(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.infoStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) errorf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.errStyle.Render(fmt.Sprintf(format, args...)))
}

// typing shows a waiting line on terminals and returns the function that
// clears it.
func (p *printer) typing() func() {
	if !p.isTTY || p.quiet {
		return func() {}
	}
	fmt.Fprint(p.out, p.infoStyle.Render("Typing..."))
	return func() {
		p.term.ClearLine()
		fmt.Fprint(p.out, "\r")
	}
}

// transcript prints every turn, numbered.
func (p *printer) transcript(t model.Transcript) {
	if t.IsEmpty() {
		p.info("No turns yet.")
		return
	}
	for i, turn := range t.Turns() {
		label := fmt.Sprintf("%2d. %s:", i+1, turn.Role.DisplayName())
		fmt.Fprintln(p.out, p.labelStyle.Render(label)+" "+turn.Preview(p.width-len(label)-1))
	}
}
