package shortcode

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var classPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var (
	titleRule = validation.In("true", "false").Error(`must be "true" or "false"`)
	classRule = validation.Match(classPattern).Error("may only contain letters, digits, '-' and '_'")
)

// ValidateAttributes checks a raw attribute string ahead of saving content
// and returns one message per problem. Expansion does not call it; the
// parser stays lenient.
func ValidateAttributes(raw string) []string {
	var problems []string
	for _, attr := range Attributes(raw) {
		var err error
		switch attr.Key {
		case attrTitle:
			err = validation.Validate(attr.Value, titleRule)
		case attrClass:
			err = validation.Validate(attr.Value, classRule)
		default:
			continue
		}
		if err != nil {
			problems = append(problems, attr.Key+": "+err.Error())
		}
	}
	return problems
}

// ValidateContent runs ValidateAttributes over every shortcode in content.
// Keys of the result are the matched shortcode texts.
func ValidateContent(content string) map[string][]string {
	problems := map[string][]string{}
	for match := range Scan(content) {
		if !match.HasAttributes {
			continue
		}
		if found := ValidateAttributes(match.AttributesRaw); len(found) > 0 {
			problems[match.FullText] = append(problems[match.FullText], found...)
		}
	}
	return problems
}
