package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-rod/rod"
	"github.com/playwright-community/playwright-go"
)

func TestTimeoutErrors(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name        string
		convert     func(error, string) error
		err         error
		wantTimeout bool
	}{
		{"rod deadline", timeoutErr, fmt.Errorf("wait: %w", context.DeadlineExceeded), true},
		{"rod other", timeoutErr, other, false},
		{"playwright timeout", pwTimeoutErr, fmt.Errorf("%w: %w", playwright.ErrPlaywright, playwright.ErrTimeout), true},
		{"playwright other", pwTimeoutErr, other, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.convert(tt.err, "text=SYSTEM ACTIVE")
			if errors.Is(err, ErrMarkerTimeout) != tt.wantTimeout {
				t.Fatalf("errors.Is(%v, ErrMarkerTimeout) = %v, want %v", err, !tt.wantTimeout, tt.wantTimeout)
			}
			if !tt.wantTimeout && err != tt.err {
				t.Fatalf("Error changed: got %v, want %v", err, tt.err)
			}
			if tt.wantTimeout && !strings.Contains(err.Error(), "text=SYSTEM ACTIVE") {
				t.Fatalf("Locator missing from error: %v", err)
			}
		})
	}

	if timeoutErr(nil, "x") != nil || pwTimeoutErr(nil, "x") != nil {
		t.Fatalf("nil error was converted")
	}
}

func TestFoundErr(t *testing.T) {
	other := errors.New("cdp: target closed")

	tests := []struct {
		name    string
		err     error
		found   bool
		wantErr error
	}{
		{"found", nil, true, nil},
		{"not found", &rod.ErrElementNotFound{}, false, nil},
		{"wrapped not found", fmt.Errorf("eval: %w", &rod.ErrElementNotFound{}), false, nil},
		{"other error", other, false, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := foundErr(tt.err)
			if found != tt.found || err != tt.wantErr {
				t.Fatalf("foundErr(%v) = %v, %v; want %v, %v", tt.err, found, err, tt.found, tt.wantErr)
			}
		})
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"SYSTEM ACTIVE", 6, "SYSTEM"},
		{"short", 500, "short"},
		{"anything", 0, "anything"},
		{"ÜBER", 1, ""},
		{"ÜBER", 2, "Ü"},
		{"ab→cd", 3, "ab"},
		{"ab→cd", 5, "ab→"},
	}

	for _, tt := range tests {
		got := snippet(tt.s, tt.n)
		if got != tt.want {
			t.Errorf("snippet(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("snippet(%q, %d) split a rune: %q", tt.s, tt.n, got)
		}
	}
}
