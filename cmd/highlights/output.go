package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"highlights/internal/domain"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgCyan)
	titleColor   = color.New(color.FgBlue, color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
	tagColor     = color.New(color.FgYellow)
)

type printer struct {
	w io.Writer
}

// print writes v as indented JSON when --json is set, otherwise runs text.
func (a *app) print(cmd *cobra.Command, v any, text func(p *printer)) error {
	out := cmd.OutOrStdout()
	if a.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(&printer{w: out})
	return nil
}

func (p *printer) plain(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) success(format string, args ...any) {
	successColor.Fprintf(p.w, "✓ "+format+"\n", args...)
}

func (p *printer) info(format string, args ...any) {
	infoColor.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) muted(format string, args ...any) {
	mutedColor.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) highlight(h domain.Highlight, withScore bool) {
	fmt.Fprintln(p.w)
	titleColor.Fprint(p.w, h.BookTitle)
	mutedColor.Fprintf(p.w, " by %s", h.BookAuthor)
	if withScore {
		mutedColor.Fprintf(p.w, " (%.2f)", h.Score)
	}
	fmt.Fprintln(p.w)
	if len(h.Tags) > 0 {
		tagColor.Fprintf(p.w, "[%s]\n", strings.Join(h.Tags, ", "))
	}
	fmt.Fprintln(p.w, strings.TrimSpace(h.Content))
}

func (p *printer) source(h domain.Highlight) {
	fmt.Fprint(p.w, "  · ")
	titleColor.Fprint(p.w, h.BookTitle)
	mutedColor.Fprintf(p.w, " (%s)\n", h.BookAuthor)
}
