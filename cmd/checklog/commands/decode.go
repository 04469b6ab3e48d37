package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arloliu/checklog"
	"github.com/arloliu/checklog/internal/config"
	"github.com/arloliu/checklog/record"
)

const defaultBatchSize = 256

func NewDecodeCommand() *cobra.Command {
	var (
		output      string
		passthrough bool
		failFast    bool
		extended    bool
		emitNull    bool
		batchSize   int
	)

	cmd := &cobra.Command{
		Use:   "decode [file...]",
		Short: "Expand bundle records into canonical lines",
		Long: `Expand bundle records into canonical lines

Reads lines from the given files, or stdin, and writes the canonical S and M
lines of every bundle record to stdout. Lines that are not bundle records
are skipped unless --passthrough is set. Lines that fail to decode are
reported on stderr and skipped, or stop the command with --fail-fast.`,
		Example: `  # Decode a check log
  checklog decode checks.log

  # Keep non-bundle lines in the output
  tail -f checks.log | checklog decode --passthrough

  # Structured output
  checklog decode --output json checks.log | jq .metrics`,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("output") {
				cfg.Output = output
			}
			if flags.Changed("fail-fast") && failFast {
				cfg.Batch.Policy = "fail-fast"
			}
			if flags.Changed("extended") {
				cfg.Decode.ExtendedCompression = extended
			}
			if flags.Changed("emit-null") {
				cfg.Decode.EmitNullNumeric = emitNull
			}
			if batchSize <= 0 {
				return errors.New("--batch-size must be > 0")
			}

			return runDecode(cmd, cfg, args, passthrough, batchSize)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", config.OutputLines, "output format: lines, json, or msgpack")
	cmd.Flags().BoolVar(&passthrough, "passthrough", false, "copy non-bundle lines to the output (lines format only)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first line that fails to decode")
	cmd.Flags().BoolVar(&extended, "extended", false, "accept zstd, s2, and lz4 bundle tags")
	cmd.Flags().BoolVar(&emitNull, "emit-null", false, "emit [[null]] lines for absent numeric values")
	cmd.Flags().IntVar(&batchSize, "batch-size", defaultBatchSize, "lines decoded concurrently per batch")

	return cmd
}

func newDecoder(cfg config.Config, cmd *cobra.Command) (*checklog.Decoder, error) {
	mode, err := record.ParseIPFieldMode(cfg.Decode.IPField)
	if err != nil {
		return nil, err
	}

	return checklog.NewDecoder(
		checklog.WithLogger(cfg.Log.NewLogger(cmd.ErrOrStderr())),
		checklog.WithIPFieldMode(mode),
		checklog.WithExtendedCompression(cfg.Decode.ExtendedCompression),
		checklog.WithCheckIDValidation(cfg.Decode.ValidateCheckID),
		checklog.WithMaxPayloadSize(cfg.Decode.MaxPayloadSize),
		checklog.WithEmitNullNumeric(cfg.Decode.EmitNullNumeric),
	)
}

func runDecode(cmd *cobra.Command, cfg config.Config, paths []string, passthrough bool, batchSize int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	dec, err := newDecoder(cfg, cmd)
	if err != nil {
		return err
	}

	policy, err := checklog.ParseBatchPolicy(cfg.Batch.Policy)
	if err != nil {
		return err
	}
	opts := checklog.BatchOptions{Policy: policy, Workers: cfg.Batch.Workers}

	out, err := newResultWriter(cfg.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	src, err := openLineSource(cmd, paths)
	if err != nil {
		return err
	}
	defer src.Close()

	batch := make([]string, 0, batchSize)
	// consumed counts input lines from earlier batches.
	consumed := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		results, err := checklog.DecodeBatch(cmd.Context(), dec, batch, opts)
		written := len(results)
		var lineErr *checklog.LineError
		switch {
		case errors.As(err, &lineErr):
			written = lineErr.Index
		case err != nil:
			return err
		}

		for i := range results[:written] {
			if err := writeResult(out, &results[i], batch[i], passthrough); err != nil {
				return err
			}
		}
		if lineErr != nil {
			return fmt.Errorf("line %d: %w", consumed+lineErr.Index+1, lineErr.Err)
		}

		consumed += len(batch)
		batch = batch[:0]

		return nil
	}

	for {
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		batch = append(batch, line)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				_ = out.Flush()
				return err
			}
		}
	}

	if err := flush(); err != nil {
		_ = out.Flush()
		return err
	}

	return out.Flush()
}

func writeResult(out resultWriter, res *checklog.LineResult, line string, passthrough bool) error {
	switch {
	case !res.Bundle:
		if passthrough {
			return out.WritePassthrough(line)
		}

		return nil
	case res.Err != nil:
		return nil
	default:
		return out.WriteResult(res)
	}
}
