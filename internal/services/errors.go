package services

import "errors"

// Sentinel errors returned by the service layer. The transport maps them
// onto API error responses.
var (
	// ErrNoDataset means no successful load has happened yet.
	ErrNoDataset = errors.New("dataset not loaded")
	// ErrUnknownFormat means an export format the exporter does not speak.
	ErrUnknownFormat = errors.New("unknown export format")
)
