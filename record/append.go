package record

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/arloliu/checklog/errs"
)

// AppendLine renders rec as a bundle line and appends it to dst.
//
// The Compression tag, header fields, PayloadLength, and the already encoded
// Payload are written as-is; no trailing newline is added. Header fields must
// be non-empty and free of tabs and line breaks.
func AppendLine(dst []byte, rec Record) ([]byte, error) {
	tag := rec.Compression.Tag()
	if tag == 0 {
		return dst, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, rec.Compression)
	}
	if rec.PayloadLength < 0 {
		return dst, fmt.Errorf("%w: negative payload length %d", errs.ErrInvalidHeader, rec.PayloadLength)
	}
	if bytes.ContainsAny(rec.Payload, "\t\r\n") {
		return dst, fmt.Errorf("%w: payload contains a delimiter", errs.ErrInvalidHeader)
	}

	fields := make([]headerField, 0, 6)
	if rec.HasSourceIP {
		fields = append(fields, headerField{FieldSourceIP, rec.SourceIP})
	}
	fields = append(fields,
		headerField{FieldTimestamp, rec.Timestamp},
		headerField{FieldCheckID, rec.CheckID},
		headerField{FieldTarget, rec.Target},
		headerField{FieldModule, rec.Module},
		headerField{FieldCheckName, rec.CheckName},
	)

	for _, f := range fields {
		if err := validateField(f.name, f.value); err != nil {
			return dst, err
		}
	}

	dst = append(dst, 'B', tag, '\t')
	for _, f := range fields {
		dst = append(dst, f.value...)
		dst = append(dst, '\t')
	}
	dst = strconv.AppendInt(dst, int64(rec.PayloadLength), 10)
	dst = append(dst, '\t')
	dst = append(dst, rec.Payload...)

	return dst, nil
}

type headerField struct {
	name  string
	value string
}

func validateField(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: empty %s", errs.ErrInvalidHeader, name)
	}
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '\t', '\r', '\n':
			return fmt.Errorf("%w: %s contains a delimiter", errs.ErrInvalidHeader, name)
		}
	}

	return nil
}
