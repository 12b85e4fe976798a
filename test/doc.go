/*
Package test provides test helpers shared by the unit tests of revdig's
packages, most notably an in-process DNS server answering PTR queries, so
that lookups can be tested without a real DNS server.
*/
package test
