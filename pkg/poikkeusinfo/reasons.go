package poikkeusinfo

import (
	"regexp"
	"strings"
)

var reasonRegexp = regexp.MustCompile(`^.*Syy:\s*([^.]*)`)

// DefaultReasonTable unifies observed typos and synonyms of the reason phrase.
// Lookups are exact and case sensitive. No value is also a key, so a
// normalised reason maps to itself.
func DefaultReasonTable() map[string]string {
	return map[string]string{
		"Helsinki City Marathon":              "yleisötapahtuma",
		"maraton":                             "yleisötapahtuma",
		"sambakulkue":                         "yleisötapahtuma",
		"liukkaus":                            "sääolosuhteet",
		"tien liukkaus":                       "sääolosuhteet",
		"Helsinki City Run":                   "yleisötapahtuma",
		"Vantaa Triathlon":                    "yleisötapahtuma",
		"lehtikelin aiheuttama liukkaus":      "sääolosuhteet",
		"keliolosuhteet":                      "sääolosuhteet",
		"tekninen häiriö":                     "tekninen vika",
		"Tietyö":                              "tietyö",
		"Sääolosuhteet":                       "sääolosuhteet",
		"kulkue":                              "yleisötapahtuma",
		"juoksutapahtuma":                     "yleisötapahtuma",
		"virtahäiriö":                         "tekninen vika",
		"Työnseisaus":                         "lakko",
		"tie poikki (viranomaisten toimesta)": "tie poikki",
		"työnseisaus":                         "lakko",
		"tietyömaa":                           "tietyö",
		"työmaa":                              "tietyö",
		"vaihdevika":                          "tekninen vika radassa",
		"kiskotyöt":                           "ratatyöt",
		"Este tiellä":                         "este tiellä",
		"sääolosuhteet, ajolangat jäätyy":     "sääolosuhteet",
		"väärin pysäköidyt autot":             "väärin pysäköity auto",
		"väärin pysäköity auito":              "väärin pysäköity auto",
	}
}

// NormalizeReason looks the reason up once; unknown reasons pass through.
func NormalizeReason(table map[string]string, reason string) string {
	if normalized, ok := table[reason]; ok {
		return normalized
	}
	return reason
}

func (p *Parser) parseReason(text string) *string {
	match := reasonRegexp.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	reason := NormalizeReason(p.reasons, strings.TrimSpace(match[1]))
	return &reason
}
