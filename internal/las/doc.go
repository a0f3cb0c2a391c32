// Package las parses Log ASCII Standard (LAS) well-log text into structured records.
//
// # Sections
//
// The parser is a line-oriented state machine. A line starting with '~' switches the
// current section; the section text is upper-cased and matched by substring:
//
//	~Well Information   -> WELL   (well name, STRT, STOP, STEP)
//	~Curve Information  -> CURVE  (curve mnemonic and unit, in declaration order)
//	~ASCII Log Data     -> ASCII  (depth-indexed rows)
//
// Any other section (~Version, ~Parameter, ~Other) is kept as the current section but
// matches no rule, so its lines are ignored instead of being attributed to the previous
// known section.
//
// # Rows
//
// A data row is kept only when its token count equals the number of curves declared so
// far. Token i belongs to the curve at ordinal i; the curve name does not take part in the
// mapping, so duplicate mnemonics are safe. Tokens that are not numbers become NaN and are
// carried as-is. The parser never sorts or validates depths.
//
// # Usage
//
//	res := las.Parse(text)
//	for _, row := range res.Rows {
//	    gr, ok := row.Value(res.Curves, "GR")
//	    ...
//	}
//
// Parse never fails; malformed content degrades to partial or empty results.
package las
