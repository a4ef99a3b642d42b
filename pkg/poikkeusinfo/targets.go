package poikkeusinfo

import "strings"

// parseTargets returns nil when the targets block is absent and a non-nil
// slice when it is present, even if it lists no lines.
func (p *Parser) parseTargets(targets *Targets) []TargetLine {
	if targets == nil {
		return nil
	}

	lines := make([]TargetLine, 0, len(targets.Lines))
	for _, line := range targets.Lines {
		// Codes outside the documented tables do occur in the live feed
		lines = append(lines, TargetLine{
			ID:        line.ID,
			Direction: p.codes.Directions[line.Direction],
			Type:      p.codes.LineTypes[line.LineType],
			Number:    strings.TrimSpace(line.Number),
		})
	}
	return lines
}
