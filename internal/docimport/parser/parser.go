// Package parser extracts labeled contact fields from free-form
// document text. Parsing is a pure function over the input string.
package parser

import (
	"regexp"
	"strings"

	"github.com/taskhub/taskhub-backend/internal/docimport/domain"
)

// UnknownName is recorded when no name could be extracted.
const UnknownName = "Unknown"

// fieldSpec binds a field key to the label variants that introduce it.
type fieldSpec struct {
	key    string
	labels string
}

// Order matters only for readability; every label participates in
// value termination regardless of which field it belongs to.
var fieldSpecs = []fieldSpec{
	{"name", `Full Name|Name`},
	{"email", `E-?mail`},
	{"phone", `Phone Number|Phone|Mobile`},
	{"address", `Address`},
	{"city", `City`},
	{"state", `State`},
	{"zip", `Zip Code|Zip|Postal Code`},
	{"dob", `DOB|Date of Birth`},
	{"gender", `Gender`},
	{"occupation", `Occupation`},
}

const labelSeparator = `\s*[:\-]?\s*`

var (
	newlineRe    = regexp.MustCompile(`\r\n|\r|\n`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// anyLabelRe matches any recognized label with its separator; a
	// field's value runs until the next such occurrence or end of text.
	anyLabelRe *regexp.Regexp

	// labelRes locates each field's own label (first occurrence wins).
	labelRes map[string]*regexp.Regexp

	emailTokenRe = regexp.MustCompile(`^[^\s]+`)
)

func init() {
	variants := make([]string, 0, len(fieldSpecs))
	labelRes = make(map[string]*regexp.Regexp, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		variants = append(variants, spec.labels)
		labelRes[spec.key] = regexp.MustCompile(`(?i)\b(?:` + spec.labels + `)` + labelSeparator)
	}
	anyLabelRe = regexp.MustCompile(`(?i)\b(?:` + strings.Join(variants, "|") + `)` + labelSeparator)
}

// Normalize collapses line endings to \n and every whitespace run to a
// single space. It is deterministic and idempotent.
func Normalize(text string) string {
	text = newlineRe.ReplaceAllString(text, "\n")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Parse extracts labeled contact fields from text. The name falls back
// to UnknownName; every other field is nil when absent, never "".
func Parse(text string) *domain.ExtractedFields {
	normalized := Normalize(text)
	fields := &domain.ExtractedFields{Name: UnknownName}

	if normalized == "" {
		return fields
	}

	// Every label occurrence in the text is a value boundary.
	boundaries := anyLabelRe.FindAllStringIndex(normalized, -1)

	for _, spec := range fieldSpecs {
		value := extract(normalized, labelRes[spec.key], boundaries, spec.key == "email")
		if value == "" {
			continue
		}
		switch spec.key {
		case "name":
			fields.Name = value
		case "email":
			fields.Email = &value
		case "phone":
			fields.Phone = &value
		case "address":
			fields.Address = &value
		case "city":
			fields.City = &value
		case "state":
			fields.State = &value
		case "zip":
			fields.Zip = &value
		case "dob":
			fields.DOB = &value
		case "gender":
			fields.Gender = &value
		case "occupation":
			fields.Occupation = &value
		}
	}

	return fields
}

// extract finds the first occurrence of the field's label and returns
// the trimmed text between the end of its separator and the start of
// the next recognized label, or end of string. Email values stop at
// the first whitespace instead.
func extract(text string, labelRe *regexp.Regexp, boundaries [][]int, emailToken bool) string {
	loc := labelRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	start := loc[1]
	end := len(text)
	for _, b := range boundaries {
		if b[0] >= start {
			end = b[0]
			break
		}
	}

	value := text[start:end]
	if emailToken {
		value = emailTokenRe.FindString(strings.TrimSpace(value))
	}

	return strings.TrimSpace(value)
}
