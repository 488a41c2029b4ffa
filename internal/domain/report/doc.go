// Package report models generated booking reports: the report aggregate and
// its generation state machine, period date ranges, per-type column
// templates, and the compiler that turns a booking set into a tabular
// document plus summary digest.
package report
