// Package census provides the use case that builds and publishes the
// Federal District social indicators dataset.
package census

import "errors"

// Sentinel errors for the fatal tier of a run. Remote fetch failures are
// never returned; they are reported in RunReport.RemoteErr.
var (
	// ErrOutputDir indicates that the output directory could not be created.
	ErrOutputDir = errors.New("failed to prepare output directory")

	// ErrInvalidDataset indicates that the built dataset failed validation.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrWriteDataset indicates that the CSV file could not be written.
	ErrWriteDataset = errors.New("failed to write dataset")

	// ErrStoreDataset indicates that the database load failed.
	ErrStoreDataset = errors.New("failed to store dataset")

	// ErrProfileDataset indicates that the summary could not be computed.
	ErrProfileDataset = errors.New("failed to profile dataset")
)
