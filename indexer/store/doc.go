// Package store implements the on-disk/in-memory artifact layout for a
// packed forest: a dense block of leaf buckets, followed by the packed node
// array, followed by a fixed 16-byte Header at the file tail. It provides
// one writer destination (MemoryWriter, an anonymous mapping; the file
// writer is indexer.Save) and two loader destinations (mmap a file
// read-only, or receive the writer's mapping directly with no disk
// round-trip), following the "writer-as-loader" flow of the format.
package store
