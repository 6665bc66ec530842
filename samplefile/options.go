package samplefile

import (
	"fmt"

	"github.com/arloliu/costfit/endian"
	"github.com/arloliu/costfit/format"
	"github.com/arloliu/costfit/internal/options"
)

// EncoderConfig holds the settings of Encode.
type EncoderConfig struct {
	compression format.CompressionType
	engine      endian.EndianEngine
}

func defaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		compression: format.CompressionZstd,
		engine:      endian.GetLittleEndianEngine(),
	}
}

// EncoderOption configures Encode and WriteFile.
type EncoderOption = options.Option[*EncoderConfig]

// WithCompression selects the payload codec. The default is Zstd.
func WithCompression(ct format.CompressionType) EncoderOption {
	return options.New(func(cfg *EncoderConfig) error {
		switch ct {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			cfg.compression = ct
			return nil
		default:
			return fmt.Errorf("invalid sample file compression: %s", ct)
		}
	})
}

// WithLittleEndian writes the payload in little endian byte order (the default).
func WithLittleEndian() EncoderOption {
	return options.NoError(func(cfg *EncoderConfig) {
		cfg.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian writes the payload in big endian byte order.
func WithBigEndian() EncoderOption {
	return options.NoError(func(cfg *EncoderConfig) {
		cfg.engine = endian.GetBigEndianEngine()
	})
}
