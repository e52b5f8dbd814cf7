package catalog

import "errors"

var (
	// ErrInvalidRecord is returned when an object body is not a valid song record
	ErrInvalidRecord = errors.New("invalid song record")
	// ErrMissingArtistName is returned when a record has no artist name
	ErrMissingArtistName = errors.New("record has no artist name")
	// ErrUnparseableDate is returned when a release date matches none of the accepted forms
	ErrUnparseableDate = errors.New("unparseable release date")
)
