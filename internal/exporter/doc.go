// Package exporter re-serializes a candidate view for download. CSV is the
// canonical format and round-trips through the dataset parser; XLSX is
// offered for spreadsheet users.
package exporter
