/*
Package queue implements a bounded blocking FIFO queue of string keys, with the
usual blocking insert and remove operations, as well as explicit drain
signalling and a shutdown handshake.

	             +-------------------+
	Insert  ---->| tail   ...   head |----> Remove
	(blocks      +-------------------+       (blocks while empty, returns
	 while full)                              ok false after shutdown)

The typical life cycle is a single producer inserting keys while a set of
consumers remove them. Once the producer is done, it calls
[Queue.AwaitDrained] to wait for the consumers to have taken all keys, then
[Queue.RequestShutdown] to make all consumers blocked in [Queue.Remove] (and
those yet to arrive) return with ok set to false.

Note that a Go channel already gives us blocking send and receive, but it
cannot tell a producer when it has been drained by its consumers without an
additional counter and condition. Queue instead keeps the whole state under a
single lock with three conditions: “not empty”, “not full”, and “drained”.
*/
package queue
