// Package dataset loads uploaded transaction files and hands out single
// records by row index. CSV and other delimited text are read with
// encoding/csv; XLSX workbooks are read from their first sheet.
package dataset
