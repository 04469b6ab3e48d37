package record

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/arloliu/checklog/errs"
	"github.com/arloliu/checklog/format"
)

// Header field names, as reported by errs.MalformedRecordError.
const (
	FieldSourceIP      = "source_ip"
	FieldTimestamp     = "timestamp"
	FieldCheckID       = "check_id"
	FieldTarget        = "target"
	FieldModule        = "module"
	FieldCheckName     = "check_name"
	FieldPayloadLength = "payload_length"
)

// markerLen is the length of the "B<tag><TAB>" line prefix.
const markerLen = 3

// IPFieldMode selects how Parse treats the optional leading source-IP field.
type IPFieldMode uint8

const (
	// IPFieldAuto inspects the first field with the configured
	// TimestampPredicate; a non-timestamp means a source IP is present.
	IPFieldAuto IPFieldMode = iota
	// IPFieldPresent always reads a source-IP field.
	IPFieldPresent
	// IPFieldAbsent never reads a source-IP field.
	IPFieldAbsent
)

func (m IPFieldMode) String() string {
	switch m {
	case IPFieldAuto:
		return "auto"
	case IPFieldPresent:
		return "present"
	case IPFieldAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// ParseIPFieldMode parses "auto", "present", or "absent".
func ParseIPFieldMode(s string) (IPFieldMode, error) {
	switch s {
	case "auto", "":
		return IPFieldAuto, nil
	case "present":
		return IPFieldPresent, nil
	case "absent":
		return IPFieldAbsent, nil
	default:
		return 0, fmt.Errorf("invalid ip field mode %q", s)
	}
}

// Config controls bundle line framing.
type Config struct {
	IPField IPFieldMode
	// IsTimestamp overrides the auto-detection predicate; nil uses IsTimestamp.
	IsTimestamp TimestampPredicate
	// ExtendedTags enables compression tags '3' (Zstd), '4' (S2), and '5' (LZ4).
	ExtendedTags bool
	// ValidateCheckID requires the check_id field to be a well-formed UUID.
	ValidateCheckID bool
}

// Record is one parsed bundle line.
//
// Header strings are copies owned by the Record. Payload is a sub-slice of
// the parsed line and is only valid as long as the line is.
type Record struct {
	Compression   format.CompressionType
	HasSourceIP   bool
	SourceIP      string
	Timestamp     string
	CheckID       string
	Target        string
	Module        string
	CheckName     string
	PayloadLength int
	Payload       []byte
}

// Parse splits a bundle line into its header fields and encoded payload.
//
// Returns:
//   - ok == false, err == nil: the line is not a bundle line and should be skipped
//   - err != nil: a bundle line with a missing or invalid header field
//     (*errs.MalformedRecordError); no partial Record is returned
//
// The input line is never modified.
func Parse(line []byte, cfg Config) (Record, bool, error) {
	if len(line) < markerLen || line[0] != 'B' || line[2] != '\t' {
		return Record{}, false, nil
	}

	kind, ok := format.CompressionFromTag(line[1], cfg.ExtendedTags)
	if !ok {
		return Record{}, false, nil
	}

	sc := fieldScanner{rest: line[markerLen:]}
	rec := Record{Compression: kind}

	switch cfg.IPField {
	case IPFieldPresent:
		rec.HasSourceIP = true
	case IPFieldAuto:
		pred := cfg.IsTimestamp
		if pred == nil {
			pred = IsTimestamp
		}
		rec.HasSourceIP = !pred(sc.peek())
	}

	var err error
	if rec.HasSourceIP {
		if rec.SourceIP, err = sc.next(FieldSourceIP); err != nil {
			return Record{}, true, err
		}
	}

	fields := []struct {
		name string
		dst  *string
	}{
		{FieldTimestamp, &rec.Timestamp},
		{FieldCheckID, &rec.CheckID},
		{FieldTarget, &rec.Target},
		{FieldModule, &rec.Module},
		{FieldCheckName, &rec.CheckName},
	}
	for _, f := range fields {
		if *f.dst, err = sc.next(f.name); err != nil {
			return Record{}, true, err
		}
	}

	lengthText, err := sc.next(FieldPayloadLength)
	if err != nil {
		return Record{}, true, err
	}
	payloadLen, err := strconv.ParseUint(lengthText, 10, 32)
	if err != nil {
		return Record{}, true, errs.Malformed(FieldPayloadLength, "invalid unsigned integer in")
	}
	rec.PayloadLength = int(payloadLen)
	rec.Payload = sc.rest

	if cfg.ValidateCheckID {
		if _, err := uuid.Parse(rec.CheckID); err != nil {
			return Record{}, true, errs.Malformed(FieldCheckID, "invalid uuid in")
		}
	}

	return rec, true, nil
}

// ParseString is Parse for string input.
func ParseString(line string, cfg Config) (Record, bool, error) {
	return Parse([]byte(line), cfg)
}

type fieldScanner struct {
	rest []byte
}

// peek returns the next field without consuming it.
func (s *fieldScanner) peek() []byte {
	if i := bytes.IndexByte(s.rest, '\t'); i >= 0 {
		return s.rest[:i]
	}

	return s.rest
}

// next consumes one tab-terminated, non-empty field.
func (s *fieldScanner) next(field string) (string, error) {
	if len(s.rest) == 0 {
		return "", errs.Malformed(field, "short line @")
	}

	i := bytes.IndexByte(s.rest, '\t')
	if i < 0 {
		return "", errs.Malformed(field, "no tab after")
	}
	if i == 0 {
		return "", errs.Malformed(field, "empty field")
	}

	v := string(s.rest[:i])
	s.rest = s.rest[i+1:]

	return v, nil
}
