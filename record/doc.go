// Package record parses and renders the tab-delimited framing of bundle lines.
//
// # Line Format
//
//	B<tag>\t[source_ip\t]timestamp\tcheck_id\ttarget\tmodule\tcheck_name\tpayload_length\tpayload
//
// The tag selects the envelope compression ('1' zlib, '2' none; '3'-'5' for
// the extended codecs when enabled). payload_length is the uncompressed
// payload size in decimal. The payload is the remainder of the line and is
// returned as a byte range without copying.
//
// The source-IP field is optional. Whether it is present can be forced with
// IPFieldPresent or IPFieldAbsent, or detected with IPFieldAuto, which asks a
// TimestampPredicate whether the first field looks like a timestamp.
package record
