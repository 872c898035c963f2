package core

import (
	"errors"
	"testing"
)

func TestLocatorString(t *testing.T) {
	// String output is passed to playwright as is
	tests := []struct {
		loc  Locator
		want string
	}{
		{Text("SYSTEM ACTIVE"), "text=SYSTEM ACTIVE"},
		{CSS("header div.cursor-pointer"), "header div.cursor-pointer"},
		{CSSText("button", "Initialize Session"), `button:has-text("Initialize Session")`},
		{CSSText("button", `Say "hi"`), `button:has-text("Say \"hi\"")`},
	}

	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name    string
		sc      Scenario
		wantErr bool
	}{
		{"valid", loginScenario(), false},
		{"no name", Scenario{URL: "http://localhost:4173"}, true},
		{"no url", Scenario{Name: "x"}, true},
		{"empty step", Scenario{Name: "x", URL: "http://localhost:4173", Steps: []Step{{Name: "noop"}}}, true},
		{
			name: "action without target",
			sc: Scenario{Name: "x", URL: "http://localhost:4173", Steps: []Step{{
				Name: "click", Before: []Action{{Kind: ActionClick}},
			}}},
			wantErr: true,
		},
		{
			name: "unknown action",
			sc: Scenario{Name: "x", URL: "http://localhost:4173", Steps: []Step{{
				Name: "hover", After: []Action{{Kind: "hover", Target: CSS("a")}},
			}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalogue(t *testing.T) {
	other := loginScenario()
	other.Name = "other"

	c, err := NewCatalogue(loginScenario(), other)
	if err != nil {
		t.Fatal(err)
	}

	names := c.Names()
	if len(names) != 2 || names[0] != "login" || names[1] != "other" {
		t.Fatalf("Registration order lost: %v", names)
	}

	if _, err := c.Get("missing"); !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("Want ErrUnknownScenario, got %v", err)
	}

	if _, err := NewCatalogue(loginScenario(), loginScenario()); err == nil {
		t.Fatalf("Duplicate scenario accepted")
	}
}
