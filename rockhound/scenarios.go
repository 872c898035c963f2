package rockhound

import (
	"time"

	"github.com/karust/rockverify/core"
)

const (
	AppScenario           = "app"
	DebugScenario         = "debug"
	FixScenario           = "fix"
	RevolutionaryScenario = "revolutionary"
)

const slowNavigation = time.Second * 60

func wait(loc core.Locator, timeout time.Duration, label string) core.Marker {
	return core.Marker{Locator: loc, Timeout: timeout, Label: label}
}

func (o Options) login(button string) []core.Action {
	return []core.Action{
		core.Fill(core.CSS(o.Selectors.EmailInput), o.Email),
		core.Fill(core.CSS(o.Selectors.PasswordInput), o.Password),
		core.Click(core.CSSText("button", button)),
	}
}

// App walks auth, scanner, profile and vault views
func App(o Options) core.Scenario {
	m, s := o.Markers, o.Selectors
	return core.Scenario{
		Name:        AppScenario,
		Description: "Login, scanner, profile and collection views",
		URL:         o.URL,
		Steps: []core.Step{
			{
				Name:       "auth",
				Markers:    []core.Marker{wait(core.Text(m.AuthTitle), time.Second*5, "Auth screen detected")},
				Screenshot: "1_auth_screen",
				After:      o.login(m.SessionButton),
				Miss:       core.Miss{Message: "Auth screen not found or already logged in"},
			},
			{
				Name:       "scanner",
				Markers:    []core.Marker{wait(core.Text(m.Scanner), time.Second*10, "Scanner view detected")},
				Screenshot: "2_scanner_view",
				Required:   true,
			},
			{
				Name:       "profile",
				Before:     []core.Action{core.Click(core.CSS(s.ProfileToggle))},
				Markers:    []core.Marker{wait(core.Text(m.Profile), time.Second*5, "Profile view detected")},
				Screenshot: "3_profile_view",
				After:      []core.Action{core.Click(core.CSS(s.CloseButton))},
				Required:   true,
			},
			{
				Name:       "collection",
				Before:     []core.Action{core.Click(core.CSS(s.VaultButton))},
				Markers:    []core.Marker{wait(core.Text(m.Vault), time.Second*5, "Collection view detected")},
				Screenshot: "4_collection_view",
				Required:   true,
			},
		},
		FailureScreenshot: "error",
	}
}

// Debug dumps whatever the app renders and guesses its state by text
func Debug(o Options) core.Scenario {
	in := StateInspection(o)
	return core.Scenario{
		Name:            DebugScenario,
		Description:     "Dump title, content and detected state of the first page",
		URL:             o.URL,
		NavigateTimeout: slowNavigation,
		Steps: []core.Step{
			{
				Name:       "body",
				Markers:    []core.Marker{wait(core.CSS("body"), time.Second*10, "")},
				Screenshot: "debug_state",
				Inspect:    &in,
				Required:   true,
			},
		},
	}
}

// StateInspection detects auth or scanner view by page content
func StateInspection(o Options) core.Inspection {
	return core.Inspection{
		Snippet: 500,
		States: []core.TextState{
			{Text: o.Markers.AuthTitle, Label: "Auth screen detected via text check"},
			{Text: o.Markers.Scanner, Label: "Scanner view detected via text check"},
		},
		Unknown: "Unknown state",
	}
}

// Fix checks the app gets past the splash into either auth or scanner
func Fix(o Options) core.Scenario {
	m := o.Markers
	return core.Scenario{
		Name:            FixScenario,
		Description:     "App loads past splash screen",
		URL:             o.URL,
		NavigateTimeout: slowNavigation,
		Steps: []core.Step{
			{
				Name: "load",
				Markers: []core.Marker{
					wait(core.Text(m.Brand), time.Second*10, "App loaded successfully (Auth screen)"),
					wait(core.Text(m.Scanner), time.Second*10, "App loaded successfully (Scanner)"),
				},
				Screenshot: "fixed_load",
				Miss: core.Miss{
					Message:    "Still stuck or unknown state",
					Screenshot: "still_stuck",
					Dump:       500,
				},
			},
		},
	}
}

// Revolutionary covers splash, auth, scanner HUD, admin and weather dashboards
func Revolutionary(o Options) core.Scenario {
	m, s := o.Markers, o.Selectors
	protocolButton := core.CSSText("button", m.ProtocolButton)
	return core.Scenario{
		Name:            RevolutionaryScenario,
		Description:     "Splash, auth, scanner HUD, admin and weather dashboards",
		URL:             o.URL,
		NavigateTimeout: slowNavigation,
		Steps: []core.Step{
			{
				Name:       "splash",
				Markers:    []core.Marker{wait(core.Text(m.Splash), time.Second*10, "Splash screen detected")},
				Screenshot: "1_splash",
				Miss:       core.Miss{Message: "Splash screen skipped or missed"},
			},
			{
				Name:       "auth",
				Markers:    []core.Marker{wait(core.Text(m.Brand), time.Second*10, "Auth screen detected")},
				Guard:      &protocolButton,
				Screenshot: "2_auth",
				After:      o.login(m.AuthenticateButton),
				Miss:       core.Miss{Message: "Auth screen not found or already logged in"},
			},
			{
				Name:       "scanner",
				Markers:    []core.Marker{wait(core.Text(m.Scanner), time.Second*15, "Scanner HUD detected")},
				Screenshot: "3_scanner_hud",
				Required:   true,
			},
			{
				Name:       "admin",
				Before:     []core.Action{core.Click(core.CSS(s.AdminButton))},
				Markers:    []core.Marker{wait(core.Text(m.Admin), time.Second*5, "Admin Dashboard detected")},
				Screenshot: "4_admin_dashboard",
				After:      []core.Action{core.Click(core.CSS(s.BackButton))},
				Required:   true,
			},
			{
				Name:       "weather",
				Before:     []core.Action{core.Click(core.CSS(s.WeatherButton))},
				Markers:    []core.Marker{wait(core.Text(m.Weather), time.Second*5, "Weather Dashboard detected")},
				Screenshot: "5_weather_dashboard",
				Required:   true,
			},
		},
		FailureScreenshot: "error_rev",
	}
}

// New returns catalogue of all ROCKHOUND scenarios
func New(o Options) (*core.Catalogue, error) {
	o.Init()
	return core.NewCatalogue(App(o), Debug(o), Fix(o), Revolutionary(o))
}
