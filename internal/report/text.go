package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

type TextOptions struct {
	Color bool
}

var separator = strings.Repeat("-", 50)

// WriteText renders the report in the classic layout: one "digest:size - path"
// line per member and a dashed line after each group.
func WriteText(w io.Writer, r *Report, opts TextOptions) error {
	header := color.New(color.Bold)
	key := color.New(color.FgYellow)
	warn := color.New(color.FgRed)
	for _, c := range []*color.Color{header, key, warn} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var b strings.Builder
	if !r.HasDuplicates() {
		fmt.Fprintf(&b, "No duplicates in %s\n", r.Root)
	} else {
		header.Fprintln(&b, "Duplicates")
		for _, g := range r.Groups {
			fp := key.Sprint(g.Fingerprint.String())
			for _, f := range g.Files {
				fmt.Fprintf(&b, "%s - %s\n", fp, f.Path())
			}
			b.WriteString(separator + "\n")
		}
		fmt.Fprintf(&b, "\n%s among %s scanned, %s reclaimable\n",
			pluralize(len(r.Groups), "duplicate group", "duplicate groups"),
			pluralize(r.Scanned, "file", "files"),
			humanize.IBytes(uint64(Reclaimable(r.Groups))))
	}

	if r.Digest != "" {
		fmt.Fprintf(&b, "Digest: %s\n", r.Digest)
	}
	if len(r.Skipped) > 0 {
		warn.Fprintf(&b, "Skipped %s due to errors\n", pluralize(len(r.Skipped), "path", "paths"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return humanize.Comma(int64(n)) + " " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}
