package poikkeusinfo

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	_ "time/tzdata"
)

const (
	DefaultLanguage = "fi"
	DefaultTimezone = "Europe/Helsinki"
)

// ParserOptions holds the tables and settings a Parser works from. Every table
// can be replaced to follow a different feed version.
type ParserOptions struct {
	Codes     CodeTables
	Reasons   map[string]string
	Durations *DurationParser

	// Language is the preferred lang attribute of info texts.
	Language string

	// Location is attached to the feed's offset-less timestamps.
	Location *time.Location

	// SkipInvalidItems drops disruptions with unknown type/source codes or
	// broken validity timestamps instead of failing the whole document.
	SkipInvalidItems bool
}

func DefaultParserOptions() (ParserOptions, error) {
	location, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return ParserOptions{}, err
	}

	return ParserOptions{
		Codes:     DefaultCodeTables(),
		Reasons:   DefaultReasonTable(),
		Durations: NewDurationParser(location),
		Language:  DefaultLanguage,
		Location:  location,
	}, nil
}

// Parser turns poikkeusinfo XML into DisruptionNotifications. It holds no
// mutable state and is safe for concurrent use.
type Parser struct {
	codes       CodeTables
	reasons     map[string]string
	durations   *DurationParser
	language    string
	location    *time.Location
	skipInvalid bool
}

func NewParser(options ParserOptions) *Parser {
	location := options.Location
	if location == nil {
		location = time.UTC
	}

	durations := options.Durations
	if durations == nil {
		durations = NewDurationParser(location)
	}

	return &Parser{
		codes:       options.Codes,
		reasons:     options.Reasons,
		durations:   durations,
		language:    options.Language,
		location:    location,
		skipInvalid: options.SkipInvalidItems,
	}
}

func (p *Parser) Location() *time.Location {
	return p.location
}

// Parse decodes a whole document. now is the reference time for estimated
// durations that leave out the date. A document whose root is not
// DISRUPTIONS yields an empty result.
func (p *Parser) Parse(reader io.Reader, now time.Time) ([]DisruptionNotification, error) {
	document, err := ParseXMLFile(reader)
	if err != nil {
		return nil, err
	}

	notifications := []DisruptionNotification{}
	if document == nil {
		return notifications, nil
	}

	for _, disruption := range document.Disruptions {
		notification, err := p.ParseItem(disruption, now)
		if err != nil {
			if p.skipInvalid {
				log.Warn().Err(err).Str("id", disruption.ID).Msg("Skipping invalid disruption")
				continue
			}
			return nil, err
		}

		notifications = append(notifications, notification)
	}

	return notifications, nil
}

func (p *Parser) ParseBytes(content []byte, now time.Time) ([]DisruptionNotification, error) {
	return p.Parse(bytes.NewReader(content), now)
}

// ParseItem builds the notification for a single decoded DISRUPTION element.
func (p *Parser) ParseItem(disruption Disruption, now time.Time) (DisruptionNotification, error) {
	notificationType, ok := p.codes.Types[disruption.Type]
	if !ok {
		return DisruptionNotification{}, &UnknownCodeError{DisruptionID: disruption.ID, Field: "type", Code: disruption.Type}
	}

	source, ok := p.codes.Sources[disruption.Source]
	if !ok {
		return DisruptionNotification{}, &UnknownCodeError{DisruptionID: disruption.ID, Field: "source", Code: disruption.Source}
	}

	validity, err := p.parseValidity(disruption.Validity)
	if err != nil {
		return DisruptionNotification{}, &ItemError{DisruptionID: disruption.ID, Err: err}
	}

	return DisruptionNotification{
		ID:       disruption.ID,
		Type:     notificationType,
		Source:   source,
		Info:     p.parseInfo(disruption.Info, now),
		Lines:    p.parseTargets(disruption.Targets),
		Validity: validity,
	}, nil
}

// IsItemError reports whether err only concerns a single disruption, as
// opposed to the document as a whole.
func IsItemError(err error) bool {
	var unknownCode *UnknownCodeError
	var invalidTimestamp *InvalidTimestampError
	return errors.As(err, &unknownCode) || errors.As(err, &invalidTimestamp)
}
