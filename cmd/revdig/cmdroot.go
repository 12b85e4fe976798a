// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	queueSize       *int
	threads         *int
	serverAddr      *string
	useTCP          *bool
	lookupTimeout   *time.Duration
	dedup           *bool
	netnsRef        *string
	showProgress    *bool
	spinnerInterval *time.Duration
	outputFormat    *string
	configFile      *string
	debug           *bool
)

// output formats for the final report.
var outputFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:     "revdig [flags] IP_LIST_FILE",
		Short:   "revdig looks up the DNS names of a list of IPv4 addresses",
		Version: "0.9",
		Args:    cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if *configFile != "" {
				if err := applyConfigFile(cmd.Flags(), *configFile); err != nil {
					return err
				}
			}
			if *queueSize < 1 {
				return fmt.Errorf("--max-queue-size must be greater than 0")
			}
			if *threads < 1 {
				return fmt.Errorf("--threads must be greater than 0")
			}
			if *lookupTimeout < 0 {
				return fmt.Errorf("--timeout must not be negative")
			}
			if *spinnerInterval < 10*time.Millisecond {
				return fmt.Errorf("--spinner must be at least 10ms")
			}
			if !outputFormats[*outputFormat] {
				return fmt.Errorf("--output must be one of text, json, yaml")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			return DigAndReport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		},
	}
	// Sets up the flags.
	pf := rootCmd.PersistentFlags()
	queueSize = pf.IntP(
		"max-queue-size", "q", 10, "maximum number of addresses waiting to be looked up")
	threads = pf.IntP(
		"threads", "t", 1, "number of lookup workers")
	serverAddr = pf.String(
		"server", "", "DNS server host:port to query (default first nameserver in "+resolvConfPath+")")
	useTCP = pf.Bool(
		"tcp", false, "query the DNS server via TCP instead of UDP")
	lookupTimeout = pf.Duration(
		"timeout", 5*time.Second, "timeout per lookup; 0 waits for answers without any time limit")
	dedup = pf.Bool(
		"dedup", false, "suppress concurrent duplicate lookups of the same address")
	netnsRef = pf.String(
		"netns", "", "query from inside the network namespace referenced by this path")
	showProgress = pf.Bool(
		"progress", false, "show lookup progress")
	spinnerInterval = pf.Duration(
		"spinner", 100*time.Millisecond, "progress spinner interval")
	outputFormat = pf.StringP(
		"output", "o", "text", "report format: text, json, or yaml")
	configFile = pf.String(
		"config", "", "YAML file with flag defaults")
	debug = pf.Bool(
		"debug", false, "enable debugging output")
	return
}
