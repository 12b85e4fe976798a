// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/siemens/revdig/pool"
	"github.com/siemens/revdig/resolver"
	"github.com/siemens/revdig/test"
	"github.com/siemens/revdig/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

var _ = Describe("digger", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).Within(2 * time.Second).ProbeEvery(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("rejects invalid configurations", func() {
		_, err := New(0, 1, func(context.Context, string) (string, error) { return "", nil })
		Expect(err).To(MatchError(pool.ErrInvalidConfiguration))
	})

	It("digs names from a file", func(ctx context.Context) {
		srv := test.StartPTRServer(map[string]string{
			"127.0.0.1":   "localhost",
			"192.0.2.42":  "answer.example.org",
			"192.0.2.100": "hundred.example.org",
		})
		r := resolver.New(&dns.Client{}, srv.Addr)
		defer r.Close()

		name := filepath.Join(GinkgoT().TempDir(), "ips.txt")
		Expect(os.WriteFile(name, []byte(strings.Join([]string{
			"192.0.2.42",
			"127.0.0.1",
			"garbage",
			"198.51.100.7",
			"192.0.2.42",
			"192.0.2.100",
			"127.0.0.1",
		}, "\n")), 0644)).To(Succeed())

		digger := Successful(New(3, 2, r.LookupAddr, pool.WithLookupTimeout(2*time.Second)))
		counts, err := digger.DigFile(ctx, name)
		Expect(err).NotTo(HaveOccurred())
		Expect(counts).To(Equal(Counts{Submitted: 6, Invalid: 1}))
		digger.StopWait()

		Expect(digger.Results()).To(ConsistOf(
			And(HaveField("Address", "127.0.0.1"), HaveField("Name", "localhost"), HaveField("Status", types.Resolved)),
			And(HaveField("Address", "192.0.2.42"), HaveField("Name", "answer.example.org"), HaveField("Status", types.Resolved)),
			And(HaveField("Address", "192.0.2.100"), HaveField("Name", "hundred.example.org"), HaveField("Status", types.Resolved)),
			And(HaveField("Address", "198.51.100.7"), HaveField("Name", "198.51.100.7"), HaveField("Status", types.Failed)),
		))
		stats := digger.Stats()
		Expect(stats.Submitted).To(Equal(int64(6)))
		Expect(stats.Done()).To(Equal(int64(6)))
		Expect(stats.Running).To(BeZero())
	}, SpecTimeout(10*time.Second))

	It("reports unreadable files", func() {
		digger := Successful(New(1, 1, func(context.Context, string) (string, error) {
			return "", errors.New("never called")
		}))
		defer digger.StopWait()
		_, err := digger.DigFile(context.Background(), "/nonexisting/ips.txt")
		Expect(err).To(MatchError(os.ErrNotExist))
		Expect(err).To(MatchError(ContainSubstring("cannot open")))
	})

})
