package serverutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts the first failure
// into a 400 the error middleware can render.
func ValidateRequest(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("field '%s' failed validation '%s'", first.Field(), first.Tag()))
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

var (
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)
	htmlTags     = regexp.MustCompile(`<[^>]*>`)
	uuidPattern  = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

// SanitizeInput strips control characters and HTML tags from user text.
// SQL is parameterized everywhere, so this only guards log/prompt hygiene.
func SanitizeInput(text string) string {
	if text == "" {
		return ""
	}
	sanitized := controlChars.ReplaceAllString(text, "")
	sanitized = htmlTags.ReplaceAllString(sanitized, "")
	return strings.TrimSpace(sanitized)
}

// ValidateQueryLength enforces the boundary contract: 1-500 characters
// after trimming.
func ValidateQueryLength(query string) bool {
	n := len(strings.TrimSpace(query))
	return n >= 1 && n <= 500
}

func ValidateSessionId(sessionId string) bool {
	if sessionId == "" {
		return false
	}
	return uuidPattern.MatchString(strings.ToLower(sessionId))
}
