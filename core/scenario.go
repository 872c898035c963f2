package core

import (
	"fmt"
	"time"
)

type ActionKind string

const (
	ActionFill  ActionKind = "fill"
	ActionClick ActionKind = "click"
)

type Action struct {
	Kind   ActionKind `json:"kind"`
	Target Locator    `json:"target"`
	Value  string     `json:"value,omitempty"`
}

func Fill(target Locator, value string) Action {
	return Action{Kind: ActionFill, Target: target, Value: value}
}

func Click(target Locator) Action {
	return Action{Kind: ActionClick, Target: target}
}

func (a Action) String() string {
	if a.Kind == ActionFill {
		return fmt.Sprintf("fill %s", a.Target)
	}
	return fmt.Sprintf("%s %s", a.Kind, a.Target)
}

// Marker is a locator waited for with its own timeout.
// Label is printed once the marker is found.
type Marker struct {
	Locator
	Timeout time.Duration `json:"timeout"`
	Label   string        `json:"label,omitempty"`
}

// TextState maps text found in page content to a state label
type TextState struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

type Inspection struct {
	Snippet int         `json:"snippet"`         // Bytes of page content to print
	States  []TextState `json:"states,omitempty"` // Checked in order
	Unknown string      `json:"unknown,omitempty"`
}

// Miss describes what an optional step does when it fails
type Miss struct {
	Message    string `json:"message,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`
	Dump       int    `json:"dump,omitempty"` // Bytes of page content to print
}

type Step struct {
	Name       string      `json:"name"`
	Before     []Action    `json:"before,omitempty"`
	Markers    []Marker    `json:"markers,omitempty"`
	Guard      *Locator    `json:"guard,omitempty"`
	Screenshot string      `json:"screenshot,omitempty"`
	Inspect    *Inspection `json:"inspect,omitempty"`
	After      []Action    `json:"after,omitempty"`
	Required   bool        `json:"required"`
	Miss       Miss        `json:"miss"`
}

type Scenario struct {
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	URL               string        `json:"url"`
	NavigateTimeout   time.Duration `json:"navigate_timeout"`
	Steps             []Step        `json:"steps"`
	FailureScreenshot string        `json:"failure_screenshot,omitempty"`
}

func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name cannot be empty")
	}
	if s.URL == "" {
		return fmt.Errorf("scenario %s: URL cannot be empty", s.Name)
	}
	for i, step := range s.Steps {
		if len(step.Markers) == 0 && len(step.Before) == 0 && len(step.After) == 0 && step.Inspect == nil {
			return fmt.Errorf("scenario %s: step %d (%s) does nothing", s.Name, i+1, step.Name)
		}
		for _, a := range append(append([]Action{}, step.Before...), step.After...) {
			if a.Target.IsEmpty() {
				return fmt.Errorf("scenario %s: step %s has %s action without target", s.Name, step.Name, a.Kind)
			}
			if a.Kind != ActionFill && a.Kind != ActionClick {
				return fmt.Errorf("scenario %s: step %s has unknown action %q", s.Name, step.Name, a.Kind)
			}
		}
	}
	return nil
}

// Catalogue holds scenarios in registration order
type Catalogue struct {
	order     []string
	scenarios map[string]Scenario
}

func NewCatalogue(scenarios ...Scenario) (*Catalogue, error) {
	c := Catalogue{scenarios: map[string]Scenario{}}
	for _, s := range scenarios {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.scenarios[s.Name]; ok {
			return nil, fmt.Errorf("duplicate scenario: %s", s.Name)
		}
		c.order = append(c.order, s.Name)
		c.scenarios[s.Name] = s
	}
	return &c, nil
}

func (c *Catalogue) Get(name string) (Scenario, error) {
	s, ok := c.scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	return s, nil
}

func (c *Catalogue) All() []Scenario {
	all := make([]Scenario, 0, len(c.order))
	for _, name := range c.order {
		all = append(all, c.scenarios[name])
	}
	return all
}

func (c *Catalogue) Names() []string {
	return append([]string{}, c.order...)
}
