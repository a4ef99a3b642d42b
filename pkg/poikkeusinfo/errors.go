package poikkeusinfo

import "fmt"

// MalformedDocumentError is returned when the feed is not well-formed XML.
type MalformedDocumentError struct {
	Err error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed disruption document: %s", e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// UnknownCodeError is returned when a required code (notification type or
// source) is missing from the code tables.
type UnknownCodeError struct {
	DisruptionID string
	Field        string
	Code         string
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("disruption %s: unknown %s code %q", e.DisruptionID, e.Field, e.Code)
}

type InvalidTimestampError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("invalid %s timestamp %q: %s", e.Field, e.Value, e.Err)
}

func (e *InvalidTimestampError) Unwrap() error { return e.Err }

// ItemError attaches the disruption id to an error raised while parsing one item.
type ItemError struct {
	DisruptionID string
	Err          error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("disruption %s: %s", e.DisruptionID, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
