package record

import "time"

// TimestampPredicate reports whether a header field looks like a record
// timestamp. It drives source-IP auto-detection in Parse.
type TimestampPredicate func(field []byte) bool

// IsTimestamp is the default TimestampPredicate. It accepts:
//   - epoch seconds with a millisecond fraction, e.g. "1700000000.123"
//   - RFC 3339 timestamps, e.g. "2024-01-01T00:00:00Z"
func IsTimestamp(field []byte) bool {
	return isEpochMillis(field) || isRFC3339(field)
}

func isEpochMillis(field []byte) bool {
	i := 0
	for i < len(field) && isDigit(field[i]) {
		i++
	}
	if i == 0 || i >= len(field) || field[i] != '.' {
		return false
	}

	frac := field[i+1:]
	if len(frac) != 3 {
		return false
	}
	for _, c := range frac {
		if !isDigit(c) {
			return false
		}
	}

	return true
}

func isRFC3339(field []byte) bool {
	// Cheap shape check before handing off to time.Parse.
	if len(field) < len("2006-01-02T15:04:05Z") || !isDigit(field[0]) || field[4] != '-' {
		return false
	}
	_, err := time.Parse(time.RFC3339Nano, string(field))

	return err == nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
