// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sort"

	"github.com/siemens/revdig/pool"
	"github.com/siemens/revdig/types"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// report writes the final resolutions in the specified format, sorted by
// address.
func report(w io.Writer, results []types.Resolution, format string) error {
	sortResolutions(results)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	}
	// Colors only when writing to a terminal; termenv figures this out for us.
	out := termenv.NewOutput(w)
	// Numbering starts at 1.
	for idx, res := range results {
		name := out.String(res.Name)
		if res.IsResolved() {
			name = name.Foreground(resolvedColor)
		} else {
			name = name.Foreground(failedColor)
		}
		if _, err := fmt.Fprintf(out, "%6d: %s => %s\n", idx+1, res.Address, name); err != nil {
			return err
		}
	}
	return nil
}

// sortResolutions sorts a slice of resolutions in place by their addresses'
// numeric values, not lexicographically.
func sortResolutions(results []types.Resolution) {
	sort.Slice(results, func(a, b int) bool {
		ipA := net.ParseIP(results[a].Address)
		ipB := net.ParseIP(results[b].Address)
		return bytes.Compare(ipA, ipB) < 0
	})
}

// progressRenderer renders a single progress line, based on pool statistics
// passed to its Render method.
type progressRenderer struct {
	out     *termenv.Output
	spinner *spinner
}

// newProgressRenderer returns a progressRenderer rendering to the specified
// io.Writer.
func newProgressRenderer(w io.Writer, sp *spinner) *progressRenderer {
	return &progressRenderer{
		out:     termenv.NewOutput(w),
		spinner: sp,
	}
}

// Render the given pool statistics; the final rendering drops the spinner.
func (r *progressRenderer) Render(stats pool.Stats, final bool) {
	prefix := r.out.String(r.spinner.Spinner()).Foreground(digColor).String()
	if final {
		prefix = ""
	}
	fmt.Fprintf(r.out, "%s%d/%d addresses dug: %s resolved, %s failed, %d skipped; %d/%d queued, %d/%d workers running\n",
		prefix,
		stats.Done(), stats.Submitted,
		r.out.String(fmt.Sprint(stats.Resolved)).Foreground(resolvedColor),
		r.out.String(fmt.Sprint(stats.Failed)).Foreground(failedColor),
		stats.Skipped+stats.Duplicates,
		stats.Queued, stats.Capacity,
		stats.Running, stats.Workers)
}
