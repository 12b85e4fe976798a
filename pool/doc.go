/*
Package pool implements a fixed-size pool of workers resolving addresses,
which a single producer feeds through a bounded queue.

	           Submit         +-------+   Remove   +--------+
	producer ---------------->| queue |----------->| worker |--+
	 (blocks while full)      +-------+            +--------+  |
	                                                   ...      +--> ResultCache
	                                               +--------+  |
	                                               | worker |--+
	                                               +--------+

The producer submits all its addresses and then calls
[Pool.DrainAndShutdown], which waits for the queue to run empty, tells the
workers that there's no more work to come, and waits for all workers to finish
their lookups in progress.

Workers skip addresses already found in the [cache.ResultCache]. This is only
a best-effort attempt to avoid duplicate lookups: two workers might still look
up the same address at the same time, yet only the first resolution gets
cached. Use [WithDuplicateSuppression] to make workers share in-flight lookups
instead.

Failed lookups are cached as [types.Failed] resolutions, using the numeric
address as a fallback name. Lookups are never retried.

# Acknowledgements

Under its hood, [Pool] leverages [gammazero/workerpool] for running its
workers and [golang.org/x/sync/singleflight] for suppressing duplicate
in-flight lookups.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[golang.org/x/sync/singleflight]: https://pkg.go.dev/golang.org/x/sync/singleflight
*/
package pool
