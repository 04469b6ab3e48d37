package payload

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/arloliu/checklog/errs"
)

// Field numbers of the bundle message schema.
const (
	bundleStatus  protowire.Number = 1
	bundleMetrics protowire.Number = 2
	bundlePeriod  protowire.Number = 3
	bundleTimeout protowire.Number = 4

	statusAvailable protowire.Number = 1
	statusState     protowire.Number = 2
	statusDuration  protowire.Number = 3
	statusMessage   protowire.Number = 4

	metricName      protowire.Number = 1
	metricType      protowire.Number = 2
	metricValueDbl  protowire.Number = 3
	metricValueI64  protowire.Number = 4
	metricValueUI64 protowire.Number = 5
	metricValueI32  protowire.Number = 6
	metricValueUI32 protowire.Number = 7
	metricValueStr  protowire.Number = 8
)

// wireField is the type expected for a known field number.
type wireField struct {
	num protowire.Number
	typ protowire.Type
}

var (
	bundleFields = []wireField{
		{bundleStatus, protowire.BytesType},
		{bundleMetrics, protowire.BytesType},
		{bundlePeriod, protowire.VarintType},
		{bundleTimeout, protowire.VarintType},
	}
	statusFields = []wireField{
		{statusAvailable, protowire.VarintType},
		{statusState, protowire.VarintType},
		{statusDuration, protowire.VarintType},
		{statusMessage, protowire.BytesType},
	}
	metricFields = []wireField{
		{metricName, protowire.BytesType},
		{metricType, protowire.VarintType},
		{metricValueDbl, protowire.Fixed64Type},
		{metricValueI64, protowire.VarintType},
		{metricValueUI64, protowire.VarintType},
		{metricValueI32, protowire.VarintType},
		{metricValueUI32, protowire.VarintType},
		{metricValueStr, protowire.BytesType},
	}
)

// fieldVisitor is called with the value bytes of each known field. For varint
// and fixed64 fields v is the decoded scalar and raw is nil.
type fieldVisitor func(num protowire.Number, v uint64, raw []byte) error

// walkMessage iterates the fields of one message. Unknown fields are skipped;
// a known field with the wrong wire type is an error.
func walkMessage(msg string, data []byte, known []wireField, visit fieldVisitor) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return invalid("%s: bad tag: %v", msg, protowire.ParseError(n))
		}
		data = data[n:]

		expected, isKnown := lookupField(known, num)
		if !isKnown {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return invalid("%s: bad unknown field %d: %v", msg, num, protowire.ParseError(n))
			}
			data = data[n:]

			continue
		}
		if typ != expected {
			return invalid("%s: field %d has wire type %d, want %d", msg, num, typ, expected)
		}

		var (
			v   uint64
			raw []byte
		)
		switch typ {
		case protowire.VarintType:
			v, n = protowire.ConsumeVarint(data)
		case protowire.Fixed64Type:
			v, n = protowire.ConsumeFixed64(data)
		case protowire.BytesType:
			raw, n = protowire.ConsumeBytes(data)
		}
		if n < 0 {
			return invalid("%s: bad field %d: %v", msg, num, protowire.ParseError(n))
		}
		data = data[n:]

		if err := visit(num, v, raw); err != nil {
			return err
		}
	}

	return nil
}

func lookupField(known []wireField, num protowire.Number) (protowire.Type, bool) {
	for _, f := range known {
		if f.num == num {
			return f.typ, true
		}
	}

	return 0, false
}

func invalid(msgFormat string, args ...any) error {
	return fmt.Errorf("%w: "+msgFormat, append([]any{errs.ErrPayloadInvalid}, args...)...)
}
