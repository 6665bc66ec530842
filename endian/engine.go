// Package endian provides the byte order engines used by the sample file codec.
//
// EndianEngine combines encoding/binary's ByteOrder and AppendByteOrder so one
// value can both decode fixed-width fields and append them to a buffer:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, uint32(len(samples)))
//	count := engine.Uint32(buf[off:])
//
// Sample files are little endian unless written with the big endian option;
// the header records which engine encoded the payload.
//
// All engines are immutable and safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}
