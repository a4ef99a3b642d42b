package config

import (
	"fmt"

	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
	"gopkg.in/yaml.v3"
)

// LineRule is one entry of the lines mapping. Keys left out match anything;
// a key given as an empty list matches nothing.
type LineRule struct {
	Name       string   `yaml:"-" validate:"required"`
	LineType   *string  `yaml:"line_type,omitempty" validate:"omitempty,line_type"`
	Directions []string `yaml:"directions,omitempty" validate:"dive,direction"`
	Numbers    []string `yaml:"numbers,omitempty"`
	Expression string   `yaml:"expression,omitempty"`
}

// LineRules keeps the declaration order of the lines mapping, which decides
// the display name when several rules match.
type LineRules []LineRule

func (l *LineRules) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: lines must be a mapping", value.Line)
	}

	rules := LineRules{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, ruleNode := value.Content[i], value.Content[i+1]

		var rule LineRule
		if ruleNode.Tag != "!!null" {
			if err := ruleNode.Decode(&rule); err != nil {
				return err
			}
		}
		rule.Name = keyNode.Value

		for _, existing := range rules {
			if existing.Name == rule.Name {
				return fmt.Errorf("line %d: duplicate line rule %q", keyNode.Line, rule.Name)
			}
		}

		rules = append(rules, rule)
	}

	*l = rules
	return nil
}

func (l LineRules) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, rule := range l {
		var ruleNode yaml.Node
		if err := ruleNode.Encode(rule); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: rule.Name}, &ruleNode)
	}

	return node, nil
}

// Rules converts the configuration into filter rules, compiling expressions.
func (l LineRules) Rules() ([]poikkeusinfo.Rule, error) {
	rules := make([]poikkeusinfo.Rule, 0, len(l))

	for _, lineRule := range l {
		rule := poikkeusinfo.Rule{
			Name:    lineRule.Name,
			Numbers: lineRule.Numbers,
		}

		if lineRule.LineType != nil {
			lineType := poikkeusinfo.LineType(*lineRule.LineType)
			rule.LineType = &lineType
		}

		if lineRule.Directions != nil {
			rule.Directions = make([]poikkeusinfo.Direction, 0, len(lineRule.Directions))
			for _, direction := range lineRule.Directions {
				rule.Directions = append(rule.Directions, poikkeusinfo.Direction(direction))
			}
		}

		if lineRule.Expression != "" {
			program, err := poikkeusinfo.CompileRuleExpression(lineRule.Expression)
			if err != nil {
				return nil, fmt.Errorf("line rule %q: %w", lineRule.Name, err)
			}
			rule.Expression = program
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func DefaultLineRules() LineRules {
	tram := string(poikkeusinfo.LineTypeTram)
	metro := string(poikkeusinfo.LineTypeMetro)
	helsinki := string(poikkeusinfo.LineTypeHelsinki)

	toCentrum := string(poikkeusinfo.DirectionToCentrum)
	fromCentrum := string(poikkeusinfo.DirectionFromCentrum)

	return LineRules{
		{Name: "6(T)", LineType: &tram, Directions: []string{toCentrum}, Numbers: []string{"6", "6T"}},
		{Name: "7B", LineType: &tram, Directions: []string{fromCentrum}, Numbers: []string{"7B"}},
		{Name: "7A", LineType: &tram, Directions: []string{toCentrum}, Numbers: []string{"7A"}},
		{Name: "metro", LineType: &metro, Directions: []string{toCentrum}},
		{Name: "64", LineType: &helsinki, Directions: []string{fromCentrum}, Numbers: []string{"64"}},
		{Name: "65A/66A", LineType: &helsinki, Directions: []string{toCentrum}, Numbers: []string{"65A", "66A"}},
	}
}
