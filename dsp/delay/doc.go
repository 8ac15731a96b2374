// Package delay provides a fixed-capacity circular delay line with
// independent write and read cursors.
//
// A Line is driven once per sample. Within a tick the caller reads, then
// writes, then advances:
//
//	wet := line.Read()
//	line.Write(in + feedback*wet)
//	line.Advance()
//
// This order guarantees that a delay of one sample is honored and that a
// tick never reads the slot it is about to overwrite. The line never
// allocates after New and applies no gain limiting; feedback stability is
// the caller's concern.
package delay
