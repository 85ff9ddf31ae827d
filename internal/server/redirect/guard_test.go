package redirect

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/linkmark/internal/common"
)

func TestValidate_Accepts(t *testing.T) {
	t.Parallel()

	g := NewGuard(0)

	for _, target := range []string{
		"https://example.com/a",
		"http://example.com",
		"HTTPS://EXAMPLE.COM/PATH",
		"https://example.com/path?q=1&r=2#frag",
	} {
		if err := g.Validate(target); err != nil {
			t.Fatalf("Validate(%q) = %v, want nil", target, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()

	g := NewGuard(0)

	tests := []struct {
		name   string
		target string
	}{
		{"empty", ""},
		{"javascript scheme", "javascript:alert(1)"},
		{"javascript mixed case", "JaVaScRiPt:x"},
		{"javascript with leading space", "  javascript:alert(1)"},
		{"data scheme", "data:text/html,x"},
		{"vbscript scheme", "vbscript:msgbox(1)"},
		{"ftp scheme", "ftp://host/x"},
		{"file scheme", "file:///etc/passwd"},
		{"relative path", "/local/path"},
		{"scheme-relative", "//example.com/x"},
		{"no scheme", "example.com"},
		{"malformed", "http://exa mple.com/%zz"},
		{"control characters", "https://example.com/\x00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := g.Validate(tc.target)
			if !errors.Is(err, common.ErrRedirectRejected) {
				t.Fatalf("Validate(%q) = %v, want ErrRedirectRejected", tc.target, err)
			}
		})
	}
}

func TestValidate_LengthLimit(t *testing.T) {
	t.Parallel()

	g := NewGuard(0)

	long := "https://example.com/" + strings.Repeat("a", DefaultMaxURLLength)
	if err := g.Validate(long); !errors.Is(err, common.ErrRedirectRejected) {
		t.Fatalf("expected rejection for oversized url, got %v", err)
	}

	small := NewGuard(30)
	if err := small.Validate("https://example.com/just-under"); err != nil {
		t.Fatalf("unexpected rejection at custom limit: %v", err)
	}
	if err := small.Validate("https://example.com/over-the-limit"); !errors.Is(err, common.ErrRedirectRejected) {
		t.Fatalf("expected rejection over custom limit, got %v", err)
	}
}

func TestValidate_ErrorOmitsTarget(t *testing.T) {
	t.Parallel()

	g := NewGuard(0)

	target := "javascript:alert('secret-marker')"
	err := g.Validate(target)
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if strings.Contains(err.Error(), "secret-marker") {
		t.Fatalf("rejection must not echo the target: %v", err)
	}
}
