package service

import (
	"errors"
	"fmt"
)

// Source identifies which upstream API a fetch was made against
type Source string

const (
	SourceMetadata Source = "metadata"
	SourceRates    Source = "rates"
)

// UpstreamFetchError reports that an upstream API could not be fetched.
// API is the host name used in caller-facing diagnostics.
type UpstreamFetchError struct {
	Source Source
	API    string
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("could not fetch data from %s: %v", e.API, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// upstreamError attributes err to source unless a client already did
func upstreamError(source Source, err error) error {
	var ue *UpstreamFetchError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamFetchError{Source: source, API: string(source), Err: err}
}

func isUpstream(err error) bool {
	var ue *UpstreamFetchError
	return errors.As(err, &ue)
}
