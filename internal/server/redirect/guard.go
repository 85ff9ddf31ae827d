// Package redirect validates externally supplied URLs before they are
// used as HTTP redirect targets, closing the open-redirect hole in the
// bookmark-serving path.
package redirect

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/linkmark/internal/common"
)

// DefaultMaxURLLength bounds accepted redirect targets.
const DefaultMaxURLLength = 2048

// forbiddenPrefixes are rejected on the raw lower-cased value BEFORE any
// parsing. A lenient parser can normalize malformed input into
// something that passes a scheme check, so this string-level reject and
// the parsed-scheme check below are independent defenses.
var forbiddenPrefixes = []string{"javascript:", "data:", "vbscript:"}

// Guard validates candidate redirect targets. The zero-cost rules run
// first; only a value that survives them is parsed.
type Guard struct {
	maxURLLength int
}

func NewGuard(maxURLLength int) *Guard {
	if maxURLLength <= 0 {
		maxURLLength = DefaultMaxURLLength
	}
	return &Guard{maxURLLength: maxURLLength}
}

// Validate reports whether raw is safe to hand to an HTTP redirect
// response. All rejections wrap common.ErrRedirectRejected with a
// stable reason; the rejected value itself is never part of the error.
func (g *Guard) Validate(raw string) error {
	if raw == "" {
		return rejected("empty url")
	}
	if len(raw) > g.maxURLLength {
		return rejected("url too long")
	}

	lowered := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range forbiddenPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return rejected("forbidden protocol")
		}
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return rejected("malformed url")
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return nil
	default:
		return rejected("unsupported scheme")
	}
}

func rejected(reason string) error {
	return fmt.Errorf("%w: %s", common.ErrRedirectRejected, reason)
}
