package book

import (
	"github.com/lepinkainen/shelf/internal/isbn"
)

// Messages reported by the built-in rules.
const (
	MessageNotBlank = "This value should not be blank."
	MessageISBN13   = "This value is not a valid ISBN-13."
)

// Property paths of the validated fields.
const (
	FieldTitle  = "title"
	FieldISBN   = "isbn"
	FieldAuthor = "author"
)

// Violation is a single failed rule, attributed to a field.
type Violation struct {
	PropertyPath string `json:"property_path"`
	Message      string `json:"message"`
}

// Rule is a predicate over an optional field value. Check returns true
// when the value passes.
type Rule struct {
	Name    string
	Message string
	Check   func(value *string) bool
}

// FieldRules binds an ordered list of rules to one field of a Book.
type FieldRules struct {
	Field string
	Value func(b *Book) *string
	Rules []Rule
}

// NotBlank fails for absent values and for the empty string. Whitespace
// counts as content.
func NotBlank() Rule {
	return Rule{
		Name:    "not_blank",
		Message: MessageNotBlank,
		Check: func(value *string) bool {
			return !isBlank(value)
		},
	}
}

// ISBN13 fails for non-blank values that are not valid ISBN-13 numbers.
// Blank values pass so that NotBlank alone reports them.
func ISBN13() Rule {
	return Rule{
		Name:    "isbn13",
		Message: MessageISBN13,
		Check: func(value *string) bool {
			if isBlank(value) {
				return true
			}
			return isbn.Valid13(*value)
		},
	}
}

func isBlank(value *string) bool {
	return value == nil || *value == ""
}

// DefaultFields returns the rule set for a Book in field declaration order.
func DefaultFields() []FieldRules {
	return []FieldRules{
		{
			Field: FieldTitle,
			Value: func(b *Book) *string { return b.title },
			Rules: []Rule{NotBlank()},
		},
		{
			Field: FieldISBN,
			Value: func(b *Book) *string { return b.isbn },
			Rules: []Rule{NotBlank(), ISBN13()},
		},
		{
			Field: FieldAuthor,
			Value: func(b *Book) *string { return b.author },
			Rules: []Rule{NotBlank()},
		},
	}
}

// Validator checks a Book against an ordered set of field rules.
// A Validator holds no state between calls.
type Validator struct {
	fields []FieldRules
}

// NewValidator returns a Validator for the given fields, or for
// DefaultFields when none are given.
func NewValidator(fields ...FieldRules) *Validator {
	if len(fields) == 0 {
		fields = DefaultFields()
	}
	return &Validator{fields: fields}
}

// Fields returns the property paths checked, in evaluation order.
func (v *Validator) Fields() []string {
	names := make([]string, len(v.fields))
	for i, f := range v.fields {
		names[i] = f.Field
	}
	return names
}

// Validate runs every field's rules and returns the violations found.
// Each field reports at most its first failing rule; fields never
// short-circuit each other.
func (v *Validator) Validate(b *Book) []Violation {
	var violations []Violation

	for _, field := range v.fields {
		value := field.Value(b)
		for _, rule := range field.Rules {
			if rule.Check(value) {
				continue
			}
			violations = append(violations, Violation{
				PropertyPath: field.Field,
				Message:      rule.Message,
			})
			break
		}
	}

	return violations
}

var defaultValidator = NewValidator()

// Validate checks b against DefaultFields.
func Validate(b *Book) []Violation {
	return defaultValidator.Validate(b)
}
