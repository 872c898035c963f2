package core

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

var ErrMarkerTimeout = errors.New("Timeout. Cannot find marker on page")
var ErrUnknownScenario = errors.New("Unknown scenario")
var ErrUnknownDriver = errors.New("Unknown browser driver")
var ErrNoPage = errors.New("Browser page is not opened")

// Locator describes something to find on a page.
// Text only: text present in rendered content. Selector only: visible element.
// Both: element matching Selector whose text contains Text.
type Locator struct {
	Selector string `json:"selector,omitempty"`
	Text     string `json:"text,omitempty"`
}

func (l Locator) IsEmpty() bool {
	return l.Selector == "" && l.Text == ""
}

func (l Locator) String() string {
	switch {
	case l.Selector != "" && l.Text != "":
		return fmt.Sprintf("%s:has-text(%q)", l.Selector, l.Text)
	case l.Selector != "":
		return l.Selector
	default:
		return "text=" + l.Text
	}
}

func Text(text string) Locator {
	return Locator{Text: text}
}

func CSS(selector string) Locator {
	return Locator{Selector: selector}
}

func CSSText(selector, text string) Locator {
	return Locator{Selector: selector, Text: text}
}

// Page is the single browser page a scenario is run against
type Page interface {
	Navigate(url string, timeout time.Duration) error
	WaitFor(loc Locator, timeout time.Duration) error
	IsVisible(loc Locator) (bool, error)
	Fill(loc Locator, value string, timeout time.Duration) error
	Click(loc Locator, timeout time.Duration) error
	Screenshot() ([]byte, error)
	Title() (string, error)
	HTML() (string, error)
	Close() error
}

// Launcher opens a fresh browser session. Closing the returned page releases the whole session.
type Launcher interface {
	Open() (Page, error)
}

type RunnerOpts struct {
	OutputDir     string        // Directory for screenshots
	ActionTimeout time.Duration // Timeout for fill and click
	StepTimeout   time.Duration // Marker timeout when a marker has none
	NavTimeout    time.Duration // Navigation timeout when a scenario has none
}

// Initialize runner parameters with default values if they are not set
func (o *RunnerOpts) Init() {
	if o.OutputDir == "" {
		o.OutputDir = "./verification"
	}
	if o.ActionTimeout == 0 {
		o.ActionTimeout = time.Second * 30
	}
	if o.StepTimeout == 0 {
		o.StepTimeout = time.Second * 5
	}
	if o.NavTimeout == 0 {
		o.NavTimeout = time.Second * 30
	}
}

func snippet(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
