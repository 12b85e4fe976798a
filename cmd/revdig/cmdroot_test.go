// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/siemens/revdig/test"
	"github.com/siemens/revdig/types"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

// writeFile writes the lines to a new file in a temporary directory, returning
// the file's path.
func writeFile(name string, lines ...string) string {
	GinkgoHelper()
	path := filepath.Join(GinkgoT().TempDir(), name)
	Expect(os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)).To(Succeed())
	return path
}

// revdig runs the root command with the specified args, returning its standard
// and error output.
func revdig(ctx context.Context, args ...string) (stdout, stderr string, err error) {
	var outbuf, errbuf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&outbuf)
	cmd.SetErr(&errbuf)
	cmd.SetArgs(append([]string{}, args...)) // never nil, or cobra falls back to os.Args
	err = cmd.ExecuteContext(ctx)
	return outbuf.String(), errbuf.String(), err
}

var _ = Describe("revdig command", func() {

	var srv *test.PTRServer
	var ips string

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).Within(2 * time.Second).ProbeEvery(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
		DeferCleanup(func() { log.SetLevel(log.InfoLevel) })

		srv = test.StartPTRServer(map[string]string{
			"127.0.0.1":  "localhost",
			"192.0.2.42": "answer.example.org",
			"10.0.0.2":   "two.example.net",
		})
		ips = writeFile("ips.txt",
			"192.0.2.42",
			"127.0.0.1",
			"198.51.100.7",
			"no-ip",
			"10.0.0.2",
			"127.0.0.1",
			"192.0.2.42")
	})

	DescribeTable("rejects invalid flags",
		func(errmsg string, args ...string) {
			_, _, err := revdig(context.Background(), append(args, "ips.txt")...)
			Expect(err).To(MatchError(ContainSubstring(errmsg)))
		},
		Entry("no queue", "--max-queue-size must be greater than 0", "-q", "0"),
		Entry("no workers", "--threads must be greater than 0", "--threads", "-1"),
		Entry("negative timeout", "--timeout must not be negative", "--timeout", "-1s"),
		Entry("speedy spinner", "--spinner must be at least 10ms", "--spinner", "1ms"),
		Entry("unknown format", "--output must be one of", "-o", "xml"),
	)

	It("requires an input file", func() {
		_, _, err := revdig(context.Background())
		Expect(err).To(MatchError(ContainSubstring("accepts 1 arg(s)")))
	})

	It("reports sorted by address", func(ctx context.Context) {
		stdout, _, err := revdig(ctx, "--server", srv.Addr, "-t", "3", "-q", "2", ips)
		Expect(err).NotTo(HaveOccurred())
		Expect(stdout).To(Equal(
			"     1: 10.0.0.2 => two.example.net\n" +
				"     2: 127.0.0.1 => localhost\n" +
				"     3: 192.0.2.42 => answer.example.org\n" +
				"     4: 198.51.100.7 => 198.51.100.7\n"))
	}, SpecTimeout(10*time.Second))

	It("reports in JSON and YAML", func(ctx context.Context) {
		stdout, _, err := revdig(ctx, "--server", srv.Addr, "--dedup", "-o", "json", ips)
		Expect(err).NotTo(HaveOccurred())
		var results []types.Resolution
		Expect(json.Unmarshal([]byte(stdout), &results)).To(Succeed())
		Expect(results).To(HaveLen(4))
		Expect(results[3]).To(And(
			HaveField("Address", "198.51.100.7"),
			HaveField("Name", "198.51.100.7"),
			HaveField("Status", types.Failed)))

		stdout, _, err = revdig(ctx, "--server", srv.Addr, "--output=yaml", ips)
		Expect(err).NotTo(HaveOccurred())
		results = nil
		Expect(yaml.Unmarshal([]byte(stdout), &results)).To(Succeed())
		Expect(results).To(HaveLen(4))
		Expect(results[0]).To(And(
			HaveField("Address", "10.0.0.2"),
			HaveField("Name", "two.example.net"),
			HaveField("Status", types.Resolved)))
	}, SpecTimeout(10*time.Second))

	It("shows progress", func(ctx context.Context) {
		_, stderr, err := revdig(ctx, "--server", srv.Addr, "--progress", "--spinner", "10ms", ips)
		Expect(err).NotTo(HaveOccurred())
		Expect(stderr).To(ContainSubstring("6/6 addresses dug: 3 resolved, 1 failed, 2 skipped"))
	}, SpecTimeout(10*time.Second))

	It("queries via TCP servers closing connections after each query", func(ctx context.Context) {
		tcpsrv := test.StartPTRServer(map[string]string{
			"127.0.0.1":  "localhost",
			"192.0.2.42": "answer.example.org",
			"10.0.0.2":   "two.example.net",
		}, test.WithTCP(1))
		stdout, _, err := revdig(ctx, "--server", tcpsrv.Addr, "--tcp", ips)
		Expect(err).NotTo(HaveOccurred())
		Expect(stdout).To(Equal(
			"     1: 10.0.0.2 => two.example.net\n" +
				"     2: 127.0.0.1 => localhost\n" +
				"     3: 192.0.2.42 => answer.example.org\n" +
				"     4: 198.51.100.7 => 198.51.100.7\n"))
	}, SpecTimeout(10*time.Second))

	DescribeTable("waits for slow answers as long as told",
		func(ctx context.Context, timeout string) {
			slowsrv := test.StartPTRServer(map[string]string{
				"192.0.2.42": "answer.example.org",
			}, test.WithDelay(2500*time.Millisecond))
			stdout, _, err := revdig(ctx, "--server", slowsrv.Addr, "--timeout", timeout,
				writeFile("slow.txt", "192.0.2.42"))
			Expect(err).NotTo(HaveOccurred())
			Expect(stdout).To(Equal("     1: 192.0.2.42 => answer.example.org\n"))
		},
		Entry("above the DNS client default", SpecTimeout(10*time.Second), "4s"),
		Entry("without limit", SpecTimeout(10*time.Second), "0"),
	)

	It("gives up on slow answers after the timeout", func(ctx context.Context) {
		slowsrv := test.StartPTRServer(map[string]string{
			"192.0.2.42": "answer.example.org",
		}, test.WithDelay(2*time.Second))
		stdout, _, err := revdig(ctx, "--server", slowsrv.Addr, "--timeout", "300ms",
			writeFile("slow.txt", "192.0.2.42"))
		Expect(err).NotTo(HaveOccurred())
		Expect(stdout).To(Equal("     1: 192.0.2.42 => 192.0.2.42\n"))
	}, SpecTimeout(10*time.Second))

	It("takes defaults from a config file, but flags win", func(ctx context.Context) {
		config := writeFile("revdig.yaml",
			"threads: 2",
			"output: json",
			"server: "+srv.Addr,
			"timeout: 2s",
			"debug: true")
		stdout, _, err := revdig(ctx, "--config", config, ips)
		Expect(err).NotTo(HaveOccurred())
		Expect(stdout).To(HavePrefix("["))
		Expect(*threads).To(Equal(2))
		Expect(*lookupTimeout).To(Equal(2 * time.Second))
		Expect(log.GetLevel()).To(Equal(log.DebugLevel))

		stdout, _, err = revdig(ctx, "--config", config, "-o", "text", ips)
		Expect(err).NotTo(HaveOccurred())
		Expect(stdout).To(HavePrefix("     1: 10.0.0.2 => two.example.net\n"))
	}, SpecTimeout(10*time.Second))

	It("fails on unreadable input", func(ctx context.Context) {
		_, _, err := revdig(ctx, "--server", srv.Addr, "/nonexisting/ips.txt")
		Expect(err).To(MatchError(ContainSubstring(`cannot open "/nonexisting/ips.txt"`)))
	}, SpecTimeout(10*time.Second))

	It("needs some DNS server", func(ctx context.Context) {
		oldpath := resolvConfPath
		DeferCleanup(func() { resolvConfPath = oldpath })
		resolvConfPath = "/nonexisting/resolv.conf"
		_, _, err := revdig(ctx, ips)
		Expect(err).To(MatchError(ContainSubstring("cannot determine DNS server")))
	})

})

var _ = Describe("revdig main", func() {

	It("exits with status 1 on errors", func() {
		oldargs := os.Args
		oldexit := osExit
		DeferCleanup(func() {
			os.Args = oldargs
			osExit = oldexit
		})
		os.Args = []string{"revdig", "--threads", "0", "ips.txt"}
		var status int
		osExit = func(code int) { status = code }
		main()
		Expect(status).To(Equal(1))
	})

})
