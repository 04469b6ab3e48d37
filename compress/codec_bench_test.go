package compress

import (
	"fmt"
	"testing"

	"github.com/arloliu/checklog/format"
)

// generateBenchmarkData creates test data with different compressibility characteristics
func generateBenchmarkData(size int, compressibility string) []byte {
	data := make([]byte, size)

	switch compressibility {
	case "highly_compressible":
		// data already initialized to zeros
	case "compressible":
		pattern := []byte("M\t1700000000.123\tcheck.latency\tn\t1.250000000000e-02")
		for i := range data {
			data[i] = pattern[i%len(pattern)]
		}
	default:
		for i := range data {
			data[i] = byte((i*31 + i*i*7 + i*i*i*3) % 256)
		}
	}

	return data
}

func BenchmarkCodec_Decompress(b *testing.B) {
	sizes := []int{512, 4096, 65536}

	for _, ct := range []format.CompressionType{
		format.CompressionDeflate,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := GetCodec(ct)
		if err != nil {
			b.Fatal(err)
		}

		for _, size := range sizes {
			b.Run(fmt.Sprintf("%s/%dB", ct, size), func(b *testing.B) {
				data := generateBenchmarkData(size, "compressible")
				compressed, err := codec.Compress(data)
				if err != nil {
					b.Fatal(err)
				}

				b.ReportAllocs()
				b.SetBytes(int64(len(data)))

				for b.Loop() {
					if _, err := codec.Decompress(compressed, size); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkZlibCompressor_Compress(b *testing.B) {
	data := generateBenchmarkData(4096, "compressible")
	codec := NewZlibCompressor()

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for b.Loop() {
		if _, err := codec.Compress(data); err != nil {
			b.Fatal(err)
		}
	}
}
