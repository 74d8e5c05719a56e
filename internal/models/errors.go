package models

import "errors"

var (
	ErrNotFound            = errors.New("file not found")
	ErrMalformedRequest    = errors.New("malformed request")
	ErrIncompleteUpload    = errors.New("incomplete upload")
	ErrMissingUploadParts  = errors.New("missing file data")
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
)
