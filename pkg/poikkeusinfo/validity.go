package poikkeusinfo

import "time"

// ValidityTimeLayout is the feed's timestamp format. It has no offset; the
// parser's location is attached instead.
const ValidityTimeLayout = "2006-01-02T15:04:05"

const validStatus = "1"

func (p *Parser) parseValidity(validity *ValidityElement) (Validity, error) {
	if validity == nil {
		validity = &ValidityElement{}
	}

	from, err := p.parseTimestamp("from", validity.From)
	if err != nil {
		return Validity{}, err
	}
	to, err := p.parseTimestamp("to", validity.To)
	if err != nil {
		return Validity{}, err
	}

	return Validity{
		Valid: validity.Status == validStatus,
		From:  from,
		To:    to,
	}, nil
}

func (p *Parser) parseTimestamp(field string, value string) (time.Time, error) {
	timestamp, err := time.ParseInLocation(ValidityTimeLayout, value, p.location)
	if err != nil {
		return time.Time{}, &InvalidTimestampError{Field: field, Value: value, Err: err}
	}
	return timestamp, nil
}
