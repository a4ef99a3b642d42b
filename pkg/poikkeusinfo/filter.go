package poikkeusinfo

import (
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rule selects target lines of interest. A nil constraint matches anything;
// a non-nil but empty set matches nothing.
type Rule struct {
	Name       string
	LineType   *LineType
	Directions []Direction
	Numbers    []string
	Expression *vm.Program
}

// LineEnv is the environment rule expressions are evaluated against.
type LineEnv struct {
	ID        string `expr:"id"`
	Direction string `expr:"direction"`
	Type      string `expr:"type"`
	Number    string `expr:"number"`
}

// CompileRuleExpression compiles a boolean expression over LineEnv, for
// example `number startsWith "55"`.
func CompileRuleExpression(source string) (*vm.Program, error) {
	return expr.Compile(source, expr.Env(LineEnv{}), expr.AsBool())
}

func (r Rule) Matches(line TargetLine) bool {
	if r.LineType != nil && line.Type != *r.LineType {
		return false
	}
	if r.Directions != nil && !slices.Contains(r.Directions, line.Direction) {
		return false
	}
	if r.Numbers != nil && !slices.Contains(r.Numbers, line.Number) {
		return false
	}
	if r.Expression != nil {
		result, err := expr.Run(r.Expression, LineEnv{
			ID:        line.ID,
			Direction: string(line.Direction),
			Type:      string(line.Type),
			Number:    line.Number,
		})
		if err != nil {
			return false
		}
		if matched, ok := result.(bool); !ok || !matched {
			return false
		}
	}

	return true
}

// Filter keeps the notifications that concern a configured line and labels
// them with the name of the first matching rule.
type Filter struct {
	rules []Rule
}

func NewFilter(rules []Rule) *Filter {
	return &Filter{rules: rules}
}

func (f *Filter) Rules() []Rule {
	return f.rules
}

// FilterItem returns a labelled copy of the notification and true when a rule
// matches. Rules are tried in declaration order, lines in feed order.
func (f *Filter) FilterItem(notification DisruptionNotification) (DisruptionNotification, bool) {
	if !notification.Validity.Valid || notification.Lines == nil {
		return DisruptionNotification{}, false
	}

	for _, rule := range f.rules {
		for _, line := range notification.Lines {
			if rule.Matches(line) {
				notification.DisplayName = rule.Name
				return notification, true
			}
		}
	}

	return DisruptionNotification{}, false
}

// Filter returns the matching notifications in their original order. The
// input is not modified.
func (f *Filter) Filter(notifications []DisruptionNotification) []DisruptionNotification {
	filtered := []DisruptionNotification{}

	for _, notification := range notifications {
		if matched, ok := f.FilterItem(notification); ok {
			filtered = append(filtered, matched)
		}
	}

	return filtered
}
