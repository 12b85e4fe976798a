/*
Package cache implements a concurrency-safe cache of address resolutions with
“insert if absent” semantics.

Multiple workers might look up the same address at the same time, as checking
with [ResultCache.Contains] before a lookup only is a cheap way to avoid most
(but not all) duplicate lookups. It is [ResultCache.InsertIfAbsent] that
guarantees that exactly one resolution per address ends up in the cache.
*/
package cache
