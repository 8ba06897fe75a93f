/*
Package encode implements the protocol used to deliver formatted text
into a bounded byte buffer owned by an output sink.

A [Destination] exposes its [ByteBuffer] and a Drain operation which is
called whenever the buffer becomes full. [TextEncoder] converts UTF-8 text
into the destination charset chunk by chunk, draining on overflow, so text
of any length is delivered without allocating a buffer proportional to it.
After the final write nothing is drained: leftover bytes belong to the caller.

Destinations are not safe for concurrent use. Use [LockingDestination]
when several goroutines share one destination.
*/
package encode

//go:generate -command MOCKGEN sh -c "$(git rev-parse --show-toplevel)/.buildcache/bin/$DOLLAR{DOLLAR}0 \"$DOLLAR{DOLLAR}@\"" mockgen
//go:generate MOCKGEN -destination=mock.destination_test.go -package=encode_test . Destination
