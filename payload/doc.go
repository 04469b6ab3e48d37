// Package payload models the structured content of a bundle and converts it
// to and from its protobuf wire form.
//
// A Bundle holds an optional Status and a list of Metric samples. Every
// metric value may be explicitly null, which is distinct from zero or the
// empty string:
//
//	b, err := payload.Unmarshal(raw)
//	for _, m := range b.Metrics {
//	    if m.Value.IsNull() {
//	        continue
//	    }
//	    ...
//	}
//
// Producers build bundles with a Builder, which rejects empty and duplicate
// metric names:
//
//	bld := payload.NewBuilder()
//	bld.SetStatus(payload.Status{State: 'G', Available: 'A', DurationMs: 12})
//	_ = bld.AddMetric(payload.Int32Metric("code", 200))
//	raw, err := bld.Marshal()
//
// The wire schema is a proto2 message decoded directly with protowire:
//
//	Bundle { 1: Status status; 2: repeated Metric metrics; 3: uint32 period; 4: uint32 timeout }
//	Status { 1: int32 available; 2: int32 state; 3: int32 duration; 4: string status }
//	Metric { 1: string name; 2: int32 metricType; 3: double valueDbl; 4: int64 valueI64;
//	         5: uint64 valueUI64; 6: int32 valueI32; 7: uint32 valueUI32; 8: string valueStr }
package payload
