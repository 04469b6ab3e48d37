package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMalformedRecordError(t *testing.T) {
	err := Malformed("check_id", "no tab after")

	require.ErrorIs(t, err, ErrMalformedRecord)
	require.Contains(t, err.Error(), "check_id")

	var mre *MalformedRecordError
	wrapped := fmt.Errorf("line 3: %w", err)
	require.True(t, errors.As(wrapped, &mre))
	require.Equal(t, "check_id", mre.Field)
	require.Equal(t, "no tab after", mre.Reason)
}

func TestKind(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, ""},
		{Malformed("target", "empty field"), "malformed_record"},
		{fmt.Errorf("%w: 3 != 4", ErrLengthMismatch), "length_mismatch"},
		{fmt.Errorf("outer: %w", fmt.Errorf("%w: bad", ErrDecompressionFailed)), "decompression_failed"},
		{ErrPayloadInvalid, "payload_invalid"},
		{errors.New("other"), "unknown"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, Kind(tt.err))
	}
}
