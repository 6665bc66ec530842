// Package format defines the identifiers stored in costfit sample files.
package format

import (
	"fmt"
	"strings"
)

// CompressionType identifies the codec applied to a sample file payload.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores the payload as is.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression converts a case-insensitive codec name ("none", "zstd", "s2",
// "lz4") to a CompressionType. An empty name selects CompressionNone.
func ParseCompression(name string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

// InputFormat identifies how samples are read from a file.
type InputFormat string

const (
	// InputAuto detects the format from the file contents.
	InputAuto InputFormat = "auto"
	// InputBenchfmt is the text output of go test -bench.
	InputBenchfmt InputFormat = "benchfmt"
	// InputSamples is the binary sample file container.
	InputSamples InputFormat = "samples"
)

// ParseInputFormat validates an input format name. An empty name selects InputAuto.
func ParseInputFormat(name string) (InputFormat, error) {
	switch f := InputFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return InputAuto, nil
	case InputAuto, InputBenchfmt, InputSamples:
		return f, nil
	default:
		return "", fmt.Errorf("unknown input format %q", name)
	}
}
