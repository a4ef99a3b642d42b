package poikkeusinfo

// CodeTables maps the numeric codes of the feed to their semantic labels.
// See the Poikkeusinfo XML interface v2.2 document for the code lists.
type CodeTables struct {
	Types      map[string]NotificationType
	Sources    map[string]NotificationSource
	LineTypes  map[string]LineType
	Directions map[string]Direction
}

func DefaultCodeTables() CodeTables {
	return CodeTables{
		Types: map[string]NotificationType{
			"1": NotificationTypeAdvanceInfo,
			"2": NotificationTypeUrgentInfo,
		},
		Sources: map[string]NotificationSource{
			"1": NotificationSourceManual,    // entered by hand
			"2": NotificationSourceAutomatic, // imported from other HSL systems
		},
		LineTypes: map[string]LineType{
			"1":  LineTypeHelsinki,
			"2":  LineTypeTram,
			"3":  LineTypeEspoo,
			"4":  LineTypeVantaa,
			"5":  LineTypeRegionalTraffic,
			"6":  LineTypeMetro,
			"7":  LineTypeFerry,
			"12": LineTypeTrain,
			"14": LineTypeAll,
			"36": LineTypeKirkkonummi,
			"39": LineTypeKerava,
		},
		Directions: map[string]Direction{
			"1": DirectionFromCentrum,
			"2": DirectionToCentrum,
		},
	}
}

// HasLineType reports whether any code maps to the given line type.
func (c CodeTables) HasLineType(lineType LineType) bool {
	for _, t := range c.LineTypes {
		if t == lineType {
			return true
		}
	}
	return false
}

// HasDirection reports whether any code maps to the given direction.
func (c CodeTables) HasDirection(direction Direction) bool {
	for _, d := range c.Directions {
		if d == direction {
			return true
		}
	}
	return false
}
