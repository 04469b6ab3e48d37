package commands

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/arloliu/checklog"
	"github.com/arloliu/checklog/format"
	"github.com/arloliu/checklog/internal/config"
)

func NewEncodeCommand() *cobra.Command {
	var (
		compression string
		sourceIP    string
	)

	cmd := &cobra.Command{
		Use:   "encode [file...]",
		Short: "Build bundle records from JSON documents",
		Long: `Build bundle records from JSON documents

Reads one JSON document per line, in the format written by
"checklog decode --output json", and writes one bundle record per document.
Metric values of integer types are read without loss of precision.`,
		Example: `  # Round trip
  checklog decode -o json checks.log | checklog encode | checklog decode

  # Produce uncompressed B2 records with a source address
  checklog encode --compression none --source-ip 192.0.2.1 docs.jsonl`,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("compression") {
				cfg.Encode.Compression = compression
			}
			if flags.Changed("source-ip") {
				cfg.Encode.SourceIP = sourceIP
			}

			return runEncode(cmd, cfg, args)
		},
	}

	cmd.Flags().StringVarP(&compression, "compression", "c", "deflate", "payload compression: none, deflate, zstd, s2, or lz4")
	cmd.Flags().StringVar(&sourceIP, "source-ip", "", "write a leading source address field")

	return cmd
}

func newEncoder(cfg config.Config) (*checklog.Encoder, error) {
	kind, err := format.ParseCompressionType(cfg.Encode.Compression)
	if err != nil {
		return nil, err
	}

	opts := []checklog.EncoderOption{
		checklog.WithCompression(kind),
		checklog.WithEncoderMaxPayloadSize(cfg.Decode.MaxPayloadSize),
	}
	if cfg.Encode.SourceIP != "" {
		opts = append(opts, checklog.WithSourceIP(cfg.Encode.SourceIP))
	}

	return checklog.NewEncoder(opts...)
}

func runEncode(cmd *cobra.Command, cfg config.Config, paths []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	enc, err := newEncoder(cfg)
	if err != nil {
		return err
	}

	src, err := openLineSource(cmd, paths)
	if err != nil {
		return err
	}
	defer src.Close()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	for n := 1; ; n++ {
		text, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out.Flush()
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		line, err := encodeDocument(enc, text)
		if err != nil {
			return fmt.Errorf("document %d: %w", n, err)
		}
		if _, err := out.WriteString(line); err != nil {
			return err
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
}

func encodeDocument(enc *checklog.Encoder, text string) (string, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var doc bundleDoc
	if err := dec.Decode(&doc); err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	bundle, err := doc.bundle()
	if err != nil {
		return "", err
	}

	return enc.EncodeLine(doc.header(), bundle)
}
