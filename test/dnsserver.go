// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package test

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"

	gi "github.com/onsi/ginkgo/v2"
	g "github.com/onsi/gomega"
	s "github.com/thediveo/success"
)

// PTRServer is a tiny in-process DNS server on the loopback interface,
// answering PTR queries from a fixed address-to-name table. Addresses not in
// the table get an NXDOMAIN answer.
type PTRServer struct {
	Addr    string // "host:port" the server listens on (UDP or TCP).
	srv     *dns.Server
	names   map[string]string // reverse “.in-addr.arpa.” name -> FQDN
	delay   time.Duration
	tcp     bool
	maxtcpq int
	queries atomic.Int64
}

// PTRServerOption can be passed to StartPTRServer.
type PTRServerOption func(*PTRServer)

// WithDelay delays each answer by the specified duration.
func WithDelay(delay time.Duration) PTRServerOption {
	return func(srv *PTRServer) {
		srv.delay = delay
	}
}

// WithTCP serves via TCP instead of UDP, closing client connections after
// maxQueries queries. A zero maxQueries uses the default of the dns package.
func WithTCP(maxQueries int) PTRServerOption {
	return func(srv *PTRServer) {
		srv.tcp = true
		srv.maxtcpq = maxQueries
	}
}

// StartPTRServer starts a new PTRServer answering PTR queries for the
// specified addresses with their names. The server is automatically shut down
// when the current spec node finishes.
func StartPTRServer(names map[string]string, options ...PTRServerOption) *PTRServer {
	gi.GinkgoHelper()

	srv := &PTRServer{
		names: map[string]string{},
	}
	for addr, name := range names {
		srv.names[s.Successful(dns.ReverseAddr(addr))] = dns.Fqdn(name)
	}
	for _, opt := range options {
		opt(srv)
	}

	started := make(chan struct{})
	srv.srv = &dns.Server{
		Handler:           dns.HandlerFunc(srv.answer),
		NotifyStartedFunc: func() { close(started) },
	}
	if srv.tcp {
		l := s.Successful(net.Listen("tcp", "127.0.0.1:0"))
		srv.srv.Listener = l
		srv.srv.MaxTCPQueries = srv.maxtcpq
		srv.Addr = l.Addr().String()
	} else {
		pc := s.Successful(net.ListenPacket("udp", "127.0.0.1:0"))
		srv.srv.PacketConn = pc
		srv.Addr = pc.LocalAddr().String()
	}
	go func() {
		_ = srv.srv.ActivateAndServe()
	}()
	g.Eventually(started).Should(g.BeClosed())

	gi.DeferCleanup(func() {
		_ = srv.srv.Shutdown()
	})
	return srv
}

// Queries returns the number of queries the server has seen so far.
func (srv *PTRServer) Queries() int64 {
	return srv.queries.Load()
}

func (srv *PTRServer) answer(w dns.ResponseWriter, req *dns.Msg) {
	srv.queries.Add(1)
	if srv.delay > 0 {
		time.Sleep(srv.delay)
	}
	m := &dns.Msg{}
	m.SetReply(req)
	if len(req.Question) != 1 {
		m.SetRcode(req, dns.RcodeFormatError)
		_ = w.WriteMsg(m)
		return
	}
	q := req.Question[0]
	name, ok := srv.names[q.Name]
	if !ok || q.Qtype != dns.TypePTR {
		m.SetRcode(req, dns.RcodeNameError)
		_ = w.WriteMsg(m)
		return
	}
	m.Answer = append(m.Answer, &dns.PTR{
		Hdr: dns.RR_Header{
			Name:   q.Name,
			Rrtype: dns.TypePTR,
			Class:  dns.ClassINET,
			Ttl:    60,
		},
		Ptr: name,
	})
	_ = w.WriteMsg(m)
}
