// Package samplefile stores benchmark samples in a compact binary container.
//
// A sample file keeps raw measurements between the benchmark run and the
// analysis, so a run can be analyzed again without repeating it. The layout is
//
//	offset size field
//	0      4    magic "CFSM"
//	4      1    format version (1)
//	5      1    payload compression (format.CompressionType)
//	6      2    flags; bit 0 set means the payload is big endian
//	8      8    xxHash64 of the uncompressed payload
//	16     4    uncompressed payload length
//	20     4    stored payload length
//	24     ...  stored payload
//
// Header fields are always little endian. The uncompressed payload holds
//
//	u16 parameter count
//	per parameter: u16 name length, name bytes
//	u32 sample count
//	per sample: one u32 per parameter, then the duration as u64 low and u64 high halves
//
// Every sample in a file carries the same parameter names, in file order.
package samplefile
