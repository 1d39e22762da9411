// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"io"
	"strings"
)

// Entry is a target as the command line sees it.
type Entry struct {
	Name        string
	Description string
}

// RenderListing writes the target listing: a "Targets" header followed by
// one "name — description" row per entry, in the given order.
func RenderListing(w io.Writer, entries []Entry) error {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Targets"))
	b.WriteByte('\n')

	if len(entries) == 0 {
		b.WriteString(SubtitleStyle.Render("  (no targets registered)"))
		b.WriteByte('\n')
	}
	for _, e := range entries {
		b.WriteString("  ")
		b.WriteString(CmdStyle.Render(e.Name))
		if e.Description != "" {
			b.WriteString(" — ")
			b.WriteString(e.Description)
		}
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write target listing: %w", err)
	}
	return nil
}
