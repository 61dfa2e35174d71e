package posts

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

const (
	// MaxPostLength is the maximum post content length in characters.
	// Characters are grapheme clusters, so an emoji with skin-tone or ZWJ
	// modifiers counts once where a code point count would count several.
	MaxPostLength = 5000

	// MaxCommentLength is the maximum comment content length in characters
	MaxCommentLength = 500
)

// normalizeContent trims surrounding whitespace and checks the 1..max bound.
// Length is counted in grapheme clusters so emoji and combined characters count once.
func normalizeContent(field, content string, max int) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", NewValidationError(field, "content is required")
	}
	if n := uniseg.GraphemeClusterCount(trimmed); n > max {
		return "", NewValidationError(field, fmt.Sprintf("content must be between 1 and %d characters (got %d)", max, n))
	}
	return trimmed, nil
}

// ValidatePostContent returns the trimmed post content or a ValidationError
func ValidatePostContent(content string) (string, error) {
	return normalizeContent("content", content, MaxPostLength)
}

// ValidateCommentContent returns the trimmed comment content or a ValidationError
func ValidateCommentContent(content string) (string, error) {
	return normalizeContent("content", content, MaxCommentLength)
}

// normalizeImageURL trims the reference; a blank value means "no image"
func normalizeImageURL(imageURL *string) *string {
	if imageURL == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*imageURL)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError(field, "is required")
	}
	return nil
}
