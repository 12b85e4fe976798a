// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dig

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/netip"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Counts tells how many lines of input were submitted as addresses and how
// many were invalid.
type Counts struct {
	Submitted int
	Invalid   int
}

// ScanKeys reads IPv4 addresses from the specified reader, one address per
// line, and submits them. Surrounding white space is ignored, as are empty
// lines. Lines not containing an IPv4 address in dotted decimal notation are
// logged, naming the source, and then skipped. ScanKeys stops early when the
// context gets cancelled.
func ScanKeys(ctx context.Context, r io.Reader, source string, submit func(addr string)) (Counts, error) {
	var counts Counts
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !isIPv4(line) {
			log.Warnf("%s: invalid IPv4 string: %q", source, line)
			counts.Invalid++
			continue
		}
		submit(line)
		counts.Submitted++
	}
	if err := scanner.Err(); err != nil {
		return counts, fmt.Errorf("error reading %q: %w", source, err)
	}
	return counts, nil
}

// isIPv4 returns true if s is an IPv4 address in dotted decimal notation,
// without any zone.
func isIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}
