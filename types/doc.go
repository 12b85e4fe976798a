/*
Package types defines revdig's information model, which is rather simple: a
[Resolution] maps an IP address to the DNS name found for it, together with
the [Status] of that lookup.

Resolutions are passed around by value between workers, the result cache and
the reporting. They are immutable once created; there are only getters for
the unexported error detail, so that no locking is needed when handing them
between goroutines.
*/
package types
