package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/jackBcastro/powerapps-layout-api/pkg/media"
)

// follow prints events until the channel closes and returns the saved path
// or the terminal error.
func follow(w io.Writer, events <-chan media.Progress) (string, error) {
	var path string
	var err error
	last := -1
	for p := range events {
		switch {
		case p.Err != nil:
			err = p.Err
		case p.Done:
			path = p.Path
			fmt.Fprintf(w, "\r100%% (%s)\n", humanize.Bytes(uint64(p.Total)))
		case p.Total > 0:
			if pct := p.Percent(); pct != last {
				last = pct
				fmt.Fprintf(w, "\r%3d%% (%s / %s)", pct, humanize.Bytes(uint64(p.Downloaded)), humanize.Bytes(uint64(p.Total)))
			}
		default:
			fmt.Fprintf(w, "\r%s", humanize.Bytes(uint64(p.Downloaded)))
		}
	}
	if err != nil {
		fmt.Fprintln(w)
	}
	return path, err
}
