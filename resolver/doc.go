/*
Package resolver implements reverse DNS lookups of IP addresses into names,
using PTR queries sent to a single DNS server.

Usage

	dnsclnt := dns.Client{}
	r := resolver.New(
	    &dnsclnt,           // DNS client
	    "127.0.0.53:53",    // address of server/resolver
	)
	defer r.Close()
	name, err := r.LookupAddr(ctx, "192.0.2.42")

A [Resolver] can be used by multiple goroutines at the same time; it hands
each concurrent lookup its own DNS client connection from a free list, dialing
new connections only when the free list has run dry.

To query a DNS server only reachable from inside a particular network
namespace, such as Docker's embedded DNS resolver at 127.0.0.11 inside a
container, pass [InNetworkNamespace] when creating the Resolver.

# Acknowledgements

Under its hood, [Resolver] leverages [miekg/dns] for talking DNS, and
[thediveo/lxkns] for switching network namespaces.

[miekg/dns]: https://github.com/miekg/dns
[thediveo/lxkns]: https://github.com/thediveo/lxkns
*/
package resolver
