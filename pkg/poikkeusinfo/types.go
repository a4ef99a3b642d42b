package poikkeusinfo

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationTypeAdvanceInfo NotificationType = "advance_info"
	NotificationTypeUrgentInfo  NotificationType = "urgent_info"
)

type NotificationSource string

const (
	NotificationSourceManual    NotificationSource = "manual"
	NotificationSourceAutomatic NotificationSource = "automatic"
)

// LineType is the transit mode or operating area of a target line.
// The zero value LineTypeUnknown is used for codes missing from the code table.
type LineType string

const (
	LineTypeUnknown         LineType = ""
	LineTypeHelsinki        LineType = "helsinki"
	LineTypeTram            LineType = "tram"
	LineTypeEspoo           LineType = "espoo"
	LineTypeVantaa          LineType = "vantaa"
	LineTypeRegionalTraffic LineType = "regional_traffic"
	LineTypeMetro           LineType = "metro"
	LineTypeFerry           LineType = "ferry"
	LineTypeTrain           LineType = "train"
	LineTypeAll             LineType = "all"
	LineTypeKirkkonummi     LineType = "kirkkonummi"
	LineTypeKerava          LineType = "kerava"
)

func (t LineType) MarshalJSON() ([]byte, error) {
	if t == LineTypeUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// Direction of travel relative to the city centre.
// The zero value DirectionUnknown is used for codes missing from the code table.
type Direction string

const (
	DirectionUnknown     Direction = ""
	DirectionFromCentrum Direction = "from_centrum"
	DirectionToCentrum   Direction = "to_centrum"
)

func (d Direction) MarshalJSON() ([]byte, error) {
	if d == DirectionUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

type TargetLine struct {
	ID        string    `json:"id"`
	Direction Direction `json:"direction"`
	Type      LineType  `json:"type"`
	Number    string    `json:"number"`
}

// Validity is the publication window of a notification. From is not
// guaranteed to be before To.
type Validity struct {
	Valid bool      `json:"valid"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

type InfoText struct {
	Text   string     `json:"text"`
	Reason *string    `json:"reason"`
	Length *time.Time `json:"length"`
}

// DisruptionNotification is one parsed feed entry.
//
// Lines is nil when the feed carried no targeting information at all and a
// non-nil (possibly empty) slice when a targets block was present.
// DisplayName is only set by Filter.
type DisruptionNotification struct {
	ID          string             `json:"id"`
	Type        NotificationType   `json:"type"`
	Source      NotificationSource `json:"source"`
	Info        *InfoText          `json:"info"`
	Lines       []TargetLine       `json:"lines"`
	Validity    Validity           `json:"validity"`
	DisplayName string             `json:"display_name,omitempty"`
}
