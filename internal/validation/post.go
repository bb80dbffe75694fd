package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// PostHeadingMaxLength bounds both title and subtitle.
const PostHeadingMaxLength = 100

// ValidatePostHeading validates a title or subtitle value.
func ValidatePostHeading(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > PostHeadingMaxLength {
		return fmt.Errorf("%s must not exceed %d characters", field, PostHeadingMaxLength)
	}
	return nil
}
