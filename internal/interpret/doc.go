// Package interpret computes robust per-curve statistics over depth-indexed well-log
// readings and turns them into a short interpretation summary.
//
// # Pipeline
//
//	rows -> Extract (sentinel filter) -> Describe -> StatSummary -> GenerateSummary
//
// For each curve the readings are first passed through IsValid, which rejects NaN,
// infinities and the fixed null value -9999. The surviving (depth, value) pairs form the
// raw series. Quartiles are taken with the exclusive method by default; values outside
// [Q1-1.5*IQR, Q3+1.5*IQR] are outliers and the rest form the cleaned series, over which
// mean, population standard deviation, min and max are computed. Consecutive cleaned
// samples whose values differ by more than the standard deviation mark gradient changes.
//
// # Windows
//
// AnalyzeWindow restricts the rows to a depth interval before anything else happens, so
// quartiles and outlier bounds always describe the analysed window and never the full log.
//
// Every function in this package is pure and safe for concurrent use.
package interpret
