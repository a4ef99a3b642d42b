package poikkeusinfo

import (
	"strings"
	"time"
)

// selectText picks the text in the preferred language. A lone text is used
// whatever its language; several texts without a preferred one yield nil.
func (p *Parser) selectText(info *Info) *Text {
	if info == nil {
		return nil
	}

	for i := range info.Texts {
		if info.Texts[i].Lang == p.language {
			return &info.Texts[i]
		}
	}

	if len(info.Texts) == 1 {
		return &info.Texts[0]
	}

	return nil
}

func (p *Parser) parseInfo(info *Info, now time.Time) *InfoText {
	text := p.selectText(info)
	if text == nil {
		return nil
	}

	body := strings.TrimSpace(text.Body)
	if body == "" {
		return nil
	}

	return &InfoText{
		Text:   body,
		Reason: p.parseReason(body),
		Length: p.durations.Parse(body, now),
	}
}
