package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/term"

	"github.com/arloliu/checklog"
	"github.com/arloliu/checklog/internal/config"
)

// resultWriter renders decoded bundle lines.
type resultWriter interface {
	WriteResult(res *checklog.LineResult) error
	// WritePassthrough copies a non-bundle input line.
	WritePassthrough(line string) error
	Flush() error
}

func newResultWriter(kind string, w io.Writer) (resultWriter, error) {
	bw := bufio.NewWriter(w)

	switch kind {
	case config.OutputLines:
		return &linesWriter{w: bw}, nil
	case config.OutputJSON:
		enc := json.NewEncoder(bw)
		if isTTY(w) {
			enc.SetIndent("", "  ")
		}

		return &jsonWriter{w: bw, enc: enc}, nil
	case config.OutputMsgpack:
		enc := msgpack.NewEncoder(bw)
		enc.SetCustomStructTag("json")

		return &msgpackWriter{w: bw, enc: enc}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", kind)
	}
}

type linesWriter struct {
	w *bufio.Writer
}

func (lw *linesWriter) WriteResult(res *checklog.LineResult) error {
	for _, line := range res.Lines {
		if _, err := lw.w.WriteString(line); err != nil {
			return err
		}
		if err := lw.w.WriteByte('\n'); err != nil {
			return err
		}
	}

	return nil
}

func (lw *linesWriter) WritePassthrough(line string) error {
	if _, err := lw.w.WriteString(line); err != nil {
		return err
	}

	return lw.w.WriteByte('\n')
}

func (lw *linesWriter) Flush() error {
	return lw.w.Flush()
}

type jsonWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func (jw *jsonWriter) WriteResult(res *checklog.LineResult) error {
	doc := newBundleDoc(&res.Record, res.Payload)
	doc.jsonSafe()

	return jw.enc.Encode(doc)
}

// WritePassthrough drops non-bundle lines; structured output has no place
// for them.
func (jw *jsonWriter) WritePassthrough(string) error {
	return nil
}

func (jw *jsonWriter) Flush() error {
	return jw.w.Flush()
}

type msgpackWriter struct {
	w   *bufio.Writer
	enc *msgpack.Encoder
}

func (mw *msgpackWriter) WriteResult(res *checklog.LineResult) error {
	return mw.enc.Encode(newBundleDoc(&res.Record, res.Payload))
}

func (mw *msgpackWriter) WritePassthrough(string) error {
	return nil
}

func (mw *msgpackWriter) Flush() error {
	return mw.w.Flush()
}

// isTTY reports whether w is a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
