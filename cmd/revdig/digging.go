// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/siemens/revdig/dig"
	"github.com/siemens/revdig/pool"
	"github.com/siemens/revdig/resolver"

	"github.com/gosuri/uilive"
	"github.com/miekg/dns"
	log "github.com/sirupsen/logrus"
)

// resolvConfPath is where to find the DNS server to query when not told
// otherwise.
var resolvConfPath = "/etc/resolv.conf"

// DigAndReport reads the IPv4 addresses in the named input file, digs up their
// DNS names, and finally reports the results to w. When enabled, progress is
// rendered to progressw while digging.
func DigAndReport(ctx context.Context, w io.Writer, progressw io.Writer, inputFile string) error {
	server := *serverAddr
	if server == "" {
		var err error
		server, err = resolver.ServerFromResolvConf(resolvConfPath)
		if err != nil {
			return fmt.Errorf("cannot determine DNS server: %w", err)
		}
	}
	dnsclnt := &dns.Client{Net: "udp"}
	if *useTCP {
		dnsclnt.Net = "tcp"
	}
	r := resolver.New(dnsclnt, server, resolver.InNetworkNamespace(*netnsRef))
	defer r.Close()
	log.Debugf("querying DNS server %s via %s", server, dnsclnt.Net)

	options := []pool.Option{}
	if *lookupTimeout > 0 {
		options = append(options, pool.WithLookupTimeout(*lookupTimeout))
	}
	if *dedup {
		options = append(options, pool.WithDuplicateSuppression())
	}
	digger, err := dig.New(*threads, *queueSize, r.LookupAddr, options...)
	if err != nil {
		return fmt.Errorf("cannot dig: %w", err)
	}

	// Fire off the progress rendering goroutine, if asked for. It renders the
	// current statistics until digging has finished, and then a final time.
	diggingDone := make(chan struct{})
	renderingDone := make(chan struct{})
	if *showProgress {
		go func() {
			// Dunno what uilive's background updating mode using Start() is
			// good for? It may trigger anytime with the rendering into the
			// buffer not yet complete, thus making the terminal output very
			// flickery. So we avoid Start() and instead trigger an explicit
			// flush to the terminal after having completed the rendering.
			term := uilive.New()
			term.Out = progressw
			renderer := newProgressRenderer(term, newSpinner(*spinnerInterval))
			defer func() {
				renderer.Render(digger.Stats(), true)
				_ = term.Flush()
				close(renderingDone)
			}()
			ticker := time.NewTicker(*spinnerInterval)
			defer ticker.Stop()
			for {
				renderer.Render(digger.Stats(), false)
				_ = term.Flush()
				select {
				case <-ticker.C:
				case <-diggingDone:
					return
				}
			}
		}()
	} else {
		close(renderingDone)
	}

	// Feed the addresses into the digger and then wait for all of them to be
	// dug up, even if reading the input failed midway.
	counts, digerr := digger.DigFile(ctx, inputFile)
	digger.StopWait()
	close(diggingDone)
	<-renderingDone
	if digerr != nil {
		if !errors.Is(digerr, context.Canceled) {
			return digerr
		}
		log.Warnf("interrupted, reporting the addresses dug so far")
	}
	log.Debugf("%d addresses submitted, %d invalid", counts.Submitted, counts.Invalid)

	return report(w, digger.Results(), *outputFormat)
}
