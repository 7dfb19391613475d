// Package formvalidation evaluates declarative field rules against a flat map of
// string values and tracks the interactive state of a form being filled in.
package formvalidation

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"kazini-payroll/internal/shared/apperror"

	"github.com/google/cel-go/cel"
)

// CustomFunc returns an error message, or "" when value is acceptable.
type CustomFunc func(value string, values map[string]string) string

type Messages struct {
	Required  string `json:"required,omitempty" yaml:"required"`
	MinLength string `json:"min_length,omitempty" yaml:"min_length"`
	MaxLength string `json:"max_length,omitempty" yaml:"max_length"`
	Numeric   string `json:"numeric,omitempty" yaml:"numeric"`
	Min       string `json:"min,omitempty" yaml:"min"`
	Max       string `json:"max,omitempty" yaml:"max"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern"`
	Match     string `json:"match,omitempty" yaml:"match"`
	Custom    string `json:"custom,omitempty" yaml:"custom"`
}

type Rule struct {
	Label        string   `json:"label,omitempty" yaml:"label"`
	Required     bool     `json:"required,omitempty" yaml:"required"`
	MinLength    int      `json:"min_length,omitempty" yaml:"min_length"`
	MaxLength    int      `json:"max_length,omitempty" yaml:"max_length"`
	Numeric      bool     `json:"numeric,omitempty" yaml:"numeric"`
	Integer      bool     `json:"integer,omitempty" yaml:"integer"`
	Min          *float64 `json:"min,omitempty" yaml:"min"`
	Max          *float64 `json:"max,omitempty" yaml:"max"`
	Pattern      string   `json:"pattern,omitempty" yaml:"pattern"`
	Match        string   `json:"match,omitempty" yaml:"match"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies"`
	// Expr is a CEL boolean over value, values and number.
	Expr     string     `json:"expr,omitempty" yaml:"expr"`
	Messages Messages   `json:"messages,omitempty" yaml:"messages"`
	Custom   CustomFunc `json:"-" yaml:"-"`

	pattern *regexp.Regexp
	program cel.Program
}

// RuleSet is an immutable, compiled set of field rules.
type RuleSet struct {
	rules      map[string]Rule
	fields     []string
	dependents map[string][]string
}

// NewRuleSet compiles patterns and expressions up front so that evaluation
// cannot fail on a malformed rule.
func NewRuleSet(rules map[string]Rule) (*RuleSet, error) {
	rs := &RuleSet{
		rules:      make(map[string]Rule, len(rules)),
		dependents: map[string][]string{},
	}

	for field, rule := range rules {
		if rule.Pattern != "" {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("field %s: invalid pattern: %w", field, err)
			}
			rule.pattern = re
		}
		if rule.Expr != "" {
			program, err := compileExpr(rule.Expr)
			if err != nil {
				return nil, fmt.Errorf("field %s: invalid expression: %w", field, err)
			}
			rule.program = program
		}
		if rule.Match != "" {
			if _, ok := rules[rule.Match]; !ok {
				return nil, fmt.Errorf("field %s: match target %s is not declared", field, rule.Match)
			}
			rs.addDependent(rule.Match, field)
		}
		for _, dep := range rule.Dependencies {
			rs.addDependent(dep, field)
		}

		rs.rules[field] = rule
		rs.fields = append(rs.fields, field)
	}

	sort.Strings(rs.fields)
	for key := range rs.dependents {
		sort.Strings(rs.dependents[key])
	}
	return rs, nil
}

// MustRuleSet is NewRuleSet for rules known at compile time.
func MustRuleSet(rules map[string]Rule) *RuleSet {
	rs, err := NewRuleSet(rules)
	if err != nil {
		panic(err)
	}
	return rs
}

func (rs *RuleSet) addDependent(source, dependent string) {
	for _, existing := range rs.dependents[source] {
		if existing == dependent {
			return
		}
	}
	rs.dependents[source] = append(rs.dependents[source], dependent)
}

func (rs *RuleSet) Fields() []string {
	return append([]string(nil), rs.fields...)
}

func (rs *RuleSet) Rule(field string) (Rule, bool) {
	r, ok := rs.rules[field]
	return r, ok
}

// Rules returns the declared rules keyed by field, for clients that evaluate
// them locally.
func (rs *RuleSet) Rules() map[string]Rule {
	out := make(map[string]Rule, len(rs.rules))
	for k, v := range rs.rules {
		out[k] = v
	}
	return out
}

// Dependents lists the fields that must be re-validated when field changes,
// through an explicit dependency or a match on it.
func (rs *RuleSet) Dependents(field string) []string {
	return rs.dependents[field]
}

// Validate returns one message per invalid field. Fields without a rule are ignored.
func (rs *RuleSet) Validate(values map[string]string) map[string]string {
	errs := map[string]string{}
	for _, field := range rs.fields {
		if msg := rs.ValidateField(field, values); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// Check is Validate shaped as a service error.
func (rs *RuleSet) Check(values map[string]string) error {
	errs := rs.Validate(values)
	if len(errs) == 0 {
		return nil
	}
	return apperror.ValidationFailed(errs)
}

// ValidateField runs the checks for one field in order: required, length,
// numeric, pattern, match, custom. The first failure wins.
func (rs *RuleSet) ValidateField(field string, values map[string]string) string {
	rule, ok := rs.rules[field]
	if !ok {
		return ""
	}
	value := values[field]
	label := rule.label(field)

	if strings.TrimSpace(value) == "" {
		if rule.Required {
			return pick(rule.Messages.Required, label+" is required")
		}
		return ""
	}

	length := utf8.RuneCountInString(value)
	if rule.MinLength > 0 && length < rule.MinLength {
		return pick(rule.Messages.MinLength, fmt.Sprintf("%s must be at least %d characters", label, rule.MinLength))
	}
	if rule.MaxLength > 0 && length > rule.MaxLength {
		return pick(rule.Messages.MaxLength, fmt.Sprintf("%s must be at most %d characters", label, rule.MaxLength))
	}

	number, isNumber := parseNumber(value)
	if rule.isNumeric() {
		if !isNumber {
			return pick(rule.Messages.Numeric, label+" must be a number")
		}
		if rule.Integer && number != float64(int64(number)) {
			return pick(rule.Messages.Numeric, label+" must be a whole number")
		}
		if rule.Min != nil && number < *rule.Min {
			return pick(rule.Messages.Min, fmt.Sprintf("%s must be at least %s", label, formatNumber(*rule.Min)))
		}
		if rule.Max != nil && number > *rule.Max {
			return pick(rule.Messages.Max, fmt.Sprintf("%s must be at most %s", label, formatNumber(*rule.Max)))
		}
	}

	if rule.pattern != nil && !rule.pattern.MatchString(value) {
		return pick(rule.Messages.Pattern, label+" is invalid")
	}

	if rule.Match != "" && value != values[rule.Match] {
		other := rs.rules[rule.Match].label(rule.Match)
		return pick(rule.Messages.Match, fmt.Sprintf("%s does not match %s", label, other))
	}

	if rule.Custom != nil {
		if msg := rule.Custom(value, values); msg != "" {
			return msg
		}
	}
	if rule.program != nil {
		ok, err := evalExpr(rule.program, value, values, number)
		if err != nil || !ok {
			return pick(rule.Messages.Custom, label+" is invalid")
		}
	}

	return ""
}

func (r Rule) isNumeric() bool {
	return r.Numeric || r.Integer || r.Min != nil || r.Max != nil
}

func (r Rule) label(field string) string {
	if r.Label != "" {
		return r.Label
	}
	return humanize(field)
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

func parseNumber(value string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// humanize turns confirmPassword or confirm_password into "Confirm password".
func humanize(field string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	for _, r := range field {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()

	if len(words) == 0 {
		return field
	}
	out := strings.Join(words, " ")
	first, size := utf8.DecodeRuneInString(out)
	return string(unicode.ToUpper(first)) + out[size:]
}
