package format

import (
	"fmt"
	"strings"
)

type (
	CompressionType uint8
	MetricType      byte
)

const (
	CompressionNone    CompressionType = 0x1 // CompressionNone represents no compression (tag '2').
	CompressionDeflate CompressionType = 0x2 // CompressionDeflate represents a zlib stream (tag '1').
	CompressionZstd    CompressionType = 0x3 // CompressionZstd represents Zstandard compression (tag '3').
	CompressionS2      CompressionType = 0x4 // CompressionS2 represents S2 compression (tag '4').
	CompressionLZ4     CompressionType = 0x5 // CompressionLZ4 represents LZ4 block compression (tag '5').
)

var compressionTypes = []CompressionType{CompressionNone, CompressionDeflate, CompressionZstd, CompressionS2, CompressionLZ4}

// Metric type codes. The value of each constant is the single-character tag
// carried on the wire and in canonical metric lines.
const (
	MetricInt32  MetricType = 'i'
	MetricUint32 MetricType = 'I'
	MetricInt64  MetricType = 'l'
	MetricUint64 MetricType = 'L'
	MetricDouble MetricType = 'n'
	MetricString MetricType = 's'
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionDeflate:
		return "Deflate"
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

// ParseCompressionType parses a compression name such as "deflate" or "lz4",
// ignoring case.
func ParseCompressionType(s string) (CompressionType, error) {
	for _, c := range compressionTypes {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}

	return 0, fmt.Errorf("invalid compression type %q", s)
}

// IsExtended reports whether c is only reachable through the extended tag table.
func (c CompressionType) IsExtended() bool {
	return c == CompressionZstd || c == CompressionS2 || c == CompressionLZ4
}

// Tag returns the bundle line tag character for c, or 0 for unknown types.
func (c CompressionType) Tag() byte {
	switch c {
	case CompressionDeflate:
		return '1'
	case CompressionNone:
		return '2'
	case CompressionZstd:
		return '3'
	case CompressionS2:
		return '4'
	case CompressionLZ4:
		return '5'
	default:
		return 0
	}
}

// CompressionFromTag maps a bundle line tag character to a compression type.
// Extended tags ('3'..'5') are only accepted when extended is true.
func CompressionFromTag(tag byte, extended bool) (CompressionType, bool) {
	for _, c := range compressionTypes {
		if c.Tag() != tag {
			continue
		}
		if c.IsExtended() && !extended {
			return 0, false
		}

		return c, true
	}

	return 0, false
}

// Valid reports whether m is one of the six known metric type codes.
func (m MetricType) Valid() bool {
	switch m {
	case MetricInt32, MetricUint32, MetricInt64, MetricUint64, MetricDouble, MetricString:
		return true
	default:
		return false
	}
}

func (m MetricType) String() string {
	switch m {
	case MetricInt32:
		return "Int32"
	case MetricUint32:
		return "Uint32"
	case MetricInt64:
		return "Int64"
	case MetricUint64:
		return "Uint64"
	case MetricDouble:
		return "Double"
	case MetricString:
		return "String"
	default:
		return "Unknown"
	}
}
