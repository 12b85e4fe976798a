// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// ErrNoName is returned (wrapped) by LookupAddr when the DNS server knows no
// name for an address.
var ErrNoName = errors.New("no name for address")

// noTimeout is the read and write timeout of DNS clients without explicit
// timeouts, leaving it to the lookup contexts to limit lookups.
const noTimeout = 100 * 365 * 24 * time.Hour

// ErrClosed is returned by LookupAddr after the Resolver has been closed.
var ErrClosed = errors.New("resolver closed")

// Resolver reverse-resolves IP addresses into DNS names by sending PTR queries
// to a single DNS server. Resolvers keep a free list of DNS client connections
// so that concurrent lookups each get their own connection, while sequential
// lookups reuse connections.
type Resolver struct {
	netns  relations.Relation // network namespace to dial connections in, or nil.
	client *dns.Client
	server string // address of DNS server/resolver, "host:port".

	mu     sync.Mutex // protects the free list of DNS connections.
	free   []*dns.Conn
	closed bool
}

// Option can be passed to New when creating new [Resolver] objects.
type Option func(*Resolver)

// New returns a Resolver sending its PTR queries to the specified DNS server
// address, using the specified DNS client. Unless the DNS client has been
// configured with timeouts, New disables its read and write timeouts, so that
// only the contexts passed to LookupAddr limit the duration of lookups.
//
// To dial the DNS client connections in a network namespace different to that
// of the OS-level thread of the caller specify the [InNetworkNamespace] option
// and pass it a filesystem path that must reference a network namespace (such
// as "/proc/666/ns/net").
func New(dnsclnt *dns.Client, server string, options ...Option) *Resolver {
	// Without explicit timeouts, the DNS client would give up reading after
	// its own default of 2s, regardless of the lookup context.
	if dnsclnt.Timeout == 0 {
		if dnsclnt.ReadTimeout == 0 {
			dnsclnt.ReadTimeout = noTimeout
		}
		if dnsclnt.WriteTimeout == 0 {
			dnsclnt.WriteTimeout = noTimeout
		}
	}
	r := &Resolver{
		client: dnsclnt,
		server: server,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// InNetworkNamespace optionally dials the DNS client connections of a Resolver
// inside the network namespace referenced by the specified filesystem path. An
// empty path leaves the Resolver in the caller's network namespace.
func InNetworkNamespace(netnsref string) Option {
	return func(r *Resolver) {
		if netnsref == "" {
			return
		}
		r.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// ServerFromResolvConf returns the address of the first name server listed in
// the specified resolv.conf(5) file, such as "/etc/resolv.conf".
func ServerFromResolvConf(path string) (string, error) {
	conf, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read resolver configuration: %w", err)
	}
	if len(conf.Servers) == 0 {
		return "", fmt.Errorf("no name servers in %s", path)
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port), nil
}

// LookupAddr returns the name the DNS server knows for the specified IP
// address, without the trailing dot. If the server answers with multiple
// names, the first one is returned.
//
// The lookup is aborted when the specified context is done.
func (r *Resolver) LookupAddr(ctx context.Context, addr string) (string, error) {
	arpa, err := dns.ReverseAddr(addr)
	if err != nil {
		return "", fmt.Errorf("cannot look up %q: %w", addr, err)
	}
	// A quick and non-blocking check to see if the context has been cancelled
	// before we start our work...
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("cannot look up %q: %w", addr, ctx.Err())
	default:
	}
	msg := dns.Msg{
		MsgHdr: dns.MsgHdr{Id: dns.Id()},
	}
	msg.SetQuestion(arpa, dns.TypePTR)
	resp, err := r.exchange(ctx, &msg)
	if err != nil {
		return "", fmt.Errorf("cannot look up %q: %w", addr, contextError(ctx, err))
	}
	if resp.Rcode != dns.RcodeSuccess {
		if resp.Rcode == dns.RcodeNameError {
			return "", fmt.Errorf("cannot look up %q: %w", addr, ErrNoName)
		}
		return "", fmt.Errorf("cannot look up %q: server answered %s",
			addr, dns.RcodeToString[resp.Rcode])
	}
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, "."), nil
		}
	}
	return "", fmt.Errorf("cannot look up %q: %w", addr, ErrNoName)
}

// exchange sends the query to the DNS server and returns its answer. When a
// reused stream connection turns out to have been closed by the server in the
// meantime, exchange retries once on a freshly dialed connection.
func (r *Resolver) exchange(ctx context.Context, msg *dns.Msg) (*dns.Msg, error) {
	conn, reused, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := r.exchangeWithConn(ctx, msg, conn)
	if err != nil && reused && isStale(err) && ctx.Err() == nil {
		conn, err = r.dial(ctx)
		if err != nil {
			return nil, err
		}
		resp, err = r.exchangeWithConn(ctx, msg, conn)
	}
	return resp, err
}

// exchangeWithConn sends the query over the specified connection, putting the
// connection back into the free list afterwards, unless something went wrong.
func (r *Resolver) exchangeWithConn(ctx context.Context, msg *dns.Msg, conn *dns.Conn) (*dns.Msg, error) {
	// The DNS client obeys context deadlines, but not cancellation, so an
	// exchange in progress gets aborted by forcing the connection's deadline
	// into the past.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Unix(1, 0)) })
	resp, _, err := r.client.ExchangeWithConnContext(ctx, msg, conn)
	if !stop() || err != nil {
		// Don't put a connection back after an error or with a tampered
		// deadline, as it might be in a sorry state, such as with an unread
		// late response pending.
		conn.Close()
		return nil, err
	}
	r.release(conn)
	return resp, nil
}

// isStale returns true if err indicates that the server closed a (stream)
// connection, such as after an idle period or after a maximum number of
// queries.
func isStale(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}

// contextError returns the context's error instead of the specified (network)
// error if the context is done or its deadline has passed, as the connection's
// read deadline might hit before the context notices its deadline.
func contextError(ctx context.Context, err error) error {
	if ctxerr := ctx.Err(); ctxerr != nil {
		return ctxerr
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return err
}

// conn pops a free DNS client connection off the free list, or dials a new one
// if there's none free. reused tells which one of both happened.
func (r *Resolver) conn(ctx context.Context) (conn *dns.Conn, reused bool, err error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, false, ErrClosed
	}
	if last := len(r.free) - 1; last >= 0 {
		conn := r.free[last]
		r.free = r.free[:last]
		r.mu.Unlock()
		return conn, true, nil
	}
	r.mu.Unlock()
	conn, err = r.dial(ctx)
	return conn, false, err
}

// release pushes a DNS client connection back into the free list, unless the
// Resolver has been closed in the meantime.
func (r *Resolver) release(conn *dns.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		conn.Close()
		return
	}
	r.free = append(r.free, conn)
}

// dial a new DNS client connection, switching into the configured network
// namespace if necessary.
func (r *Resolver) dial(ctx context.Context) (*dns.Conn, error) {
	dial := func() interface{} {
		conn, err := r.client.DialContext(ctx, r.server)
		if err != nil {
			return err
		}
		return conn
	}
	var res interface{}
	if r.netns != nil {
		// lxkns' ops.Execute differentiates between a namespace switching
		// error and the result of the function called in the switched
		// namespace, which here is either a connection or a dial error.
		var err error
		res, err = ops.Execute(dial, r.netns)
		if err != nil {
			return nil, fmt.Errorf("cannot switch into network namespace: %w", err)
		}
	} else {
		res = dial()
	}
	switch res := res.(type) {
	case *dns.Conn:
		return res, nil
	case error:
		return nil, fmt.Errorf("cannot dial DNS server %s: %w", r.server, res)
	}
	panic(fmt.Sprintf("unexpected dial result %T", res))
}

// Idle returns the number of DNS client connections currently in the free
// list.
func (r *Resolver) Idle() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.free)
}

// Close closes all free DNS client connections; connections of lookups in
// progress get closed as soon as their lookups finish. Lookups after Close
// fail with ErrClosed.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for _, conn := range r.free {
		conn.Close()
	}
	r.free = nil
}
