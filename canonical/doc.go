// Package canonical renders decoded bundles as canonical text lines.
//
// A bundle with a status and two metrics renders as:
//
//	S	2024-01-01T00:00:00Z	<check_id>	G	A	17	code=200
//	M	2024-01-01T00:00:00Z	<check_id>	code	i	200
//	M	2024-01-01T00:00:00Z	<check_id>	rt	n	1.700000000000e-02
//
// The status line lists state, availability, duration in milliseconds, and
// the status text (NullToken when absent). Each metric line carries the
// single-character type code of the sample and its formatted value. Value
// formatting is bit-exact with existing readers of this format.
package canonical
