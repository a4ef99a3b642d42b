package poikkeusinfo

import (
	"regexp"
	"strings"
	"time"
)

const DefaultDurationLeadIn = "Arvioitu kesto:"

// Capture group names understood by DurationParser. end_time is required,
// end_date is optional and defaults to the reference date.
const (
	endDateGroup = "end_date"
	endTimeGroup = "end_time"
)

// DurationPattern is one phrasing of the estimated duration. Patterns are
// matched against the text directly after the lead-in.
type DurationPattern struct {
	Name   string
	Regexp *regexp.Regexp
}

func DefaultDurationPatterns() []DurationPattern {
	return []DurationPattern{
		{
			// 10:00 - 23.05. klo 14:00
			Name:   "time-date-time",
			Regexp: regexp.MustCompile(`^(?P<start_time>[0-9]{1,2}:[0-9]{2}|[0-9]{1,2})\s*-\s*(?P<end_date>[0-9]{1,2}\.[0-9]{2})\.?\s*(?:(?:klo|kello)\.*\s*)?(?P<end_time>[0-9]{1,2}:[0-9]{2}|[0-9]{1,2})`),
		},
		{
			// 18:00 asti.
			Name:   "until-time",
			Regexp: regexp.MustCompile(`^(?P<end_time>[0-9]{1,2}:[0-9]{2}|[0-9]{1,2})\s*(?:asti)?\.?$`),
		},
		{
			// 9 - 15
			Name:   "time-time",
			Regexp: regexp.MustCompile(`^(?P<start_time>[0-9]{1,2}:[0-9]{2}|[0-9]{1,2})\s*-\s*(?P<end_time>[0-9]{1,2}:[0-9]{2}|[0-9]{1,2})`),
		},
	}
}

// DefaultDateFormats are tried in order for the day.month date component.
func DefaultDateFormats() []string {
	return []string{"2.1", "2.1.", "2.1.2006", "2..1", "2..1.2006"}
}

func DefaultTimeFormats() []string {
	return []string{"15:04", "15"}
}

// DurationParser mines an estimated end time out of free text.
type DurationParser struct {
	LeadIn      string
	Patterns    []DurationPattern
	DateFormats []string
	TimeFormats []string
	Location    *time.Location
}

func NewDurationParser(location *time.Location) *DurationParser {
	return &DurationParser{
		LeadIn:      DefaultDurationLeadIn,
		Patterns:    DefaultDurationPatterns(),
		DateFormats: DefaultDateFormats(),
		TimeFormats: DefaultTimeFormats(),
		Location:    location,
	}
}

// Parse returns the estimated end of the disruption, or nil when the text has
// no lead-in or no pattern yields a usable date and time. The first pattern
// that does wins.
func (d *DurationParser) Parse(text string, now time.Time) *time.Time {
	_, estimate, found := strings.Cut(text, d.LeadIn)
	if !found {
		return nil
	}
	estimate, _, _ = strings.Cut(estimate, d.LeadIn)
	estimate = strings.TrimSpace(estimate)

	now = now.In(d.Location)

	for _, pattern := range d.Patterns {
		if end, ok := d.extract(pattern.Regexp, estimate, now); ok {
			return &end
		}
	}

	return nil
}

func (d *DurationParser) extract(pattern *regexp.Regexp, estimate string, now time.Time) (time.Time, bool) {
	match := pattern.FindStringSubmatch(estimate)
	if match == nil {
		return time.Time{}, false
	}

	var endDate, endTime string
	for i, name := range pattern.SubexpNames() {
		switch name {
		case endDateGroup:
			endDate = match[i]
		case endTimeGroup:
			endTime = match[i]
		}
	}

	month, day := now.Month(), now.Day()
	if endDate != "" {
		date, ok := parseFirst(d.DateFormats, endDate)
		if !ok {
			return time.Time{}, false
		}
		month, day = date.Month(), date.Day()
	}

	clock, ok := parseFirst(d.TimeFormats, endTime)
	if !ok {
		return time.Time{}, false
	}

	return time.Date(now.Year(), month, day, clock.Hour(), clock.Minute(), 0, 0, d.Location), true
}

func parseFirst(layouts []string, value string) (time.Time, bool) {
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
