package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// lineSource reads newline-terminated lines from stdin or the named files
// in order. Lines may be arbitrarily long.
type lineSource struct {
	readers []io.Reader
	closers []io.Closer
	cur     *bufio.Reader
}

func openLineSource(cmd *cobra.Command, paths []string) (*lineSource, error) {
	src := &lineSource{}
	if len(paths) == 0 {
		src.readers = []io.Reader{cmd.InOrStdin()}
		return src, nil
	}

	for _, p := range paths {
		if p == "-" {
			src.readers = append(src.readers, cmd.InOrStdin())
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			_ = src.Close()
			return nil, fmt.Errorf("open input: %w", err)
		}
		src.readers = append(src.readers, f)
		src.closers = append(src.closers, f)
	}

	return src, nil
}

// Next returns the next line without its line terminator, or io.EOF once all
// inputs are exhausted.
func (s *lineSource) Next() (string, error) {
	for {
		if s.cur == nil {
			if len(s.readers) == 0 {
				return "", io.EOF
			}
			s.cur = bufio.NewReaderSize(s.readers[0], 64*1024)
			s.readers = s.readers[1:]
		}

		line, err := s.cur.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")

			return line, nil
		}
		if errors.Is(err, io.EOF) {
			s.cur = nil
			continue
		}
		if err != nil {
			return "", err
		}
	}
}

func (s *lineSource) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	s.closers = nil

	return errors.Join(errs...)
}
