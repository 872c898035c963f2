package rockhound

// Markers are texts the ROCKHOUND UI renders at each state.
// They drift between UI revisions, so every one can be overridden from config.
type Markers struct {
	AuthTitle          string `mapstructure:"auth_title"`
	Brand              string `mapstructure:"brand"`
	Splash             string `mapstructure:"splash"`
	Scanner            string `mapstructure:"scanner"`
	Profile            string `mapstructure:"profile"`
	Vault              string `mapstructure:"vault"`
	Admin              string `mapstructure:"admin"`
	Weather            string `mapstructure:"weather"`
	SessionButton      string `mapstructure:"session_button"`
	ProtocolButton     string `mapstructure:"protocol_button"`
	AuthenticateButton string `mapstructure:"authenticate_button"`
}

type Selectors struct {
	EmailInput    string `mapstructure:"email_input"`
	PasswordInput string `mapstructure:"password_input"`
	ProfileToggle string `mapstructure:"profile_toggle"`
	CloseButton   string `mapstructure:"close_button"`
	VaultButton   string `mapstructure:"vault_button"`
	AdminButton   string `mapstructure:"admin_button"`
	BackButton    string `mapstructure:"back_button"`
	WeatherButton string `mapstructure:"weather_button"`
}

type Options struct {
	URL       string    `mapstructure:"url"`
	Email     string    `mapstructure:"email"`
	Password  string    `mapstructure:"password"`
	Markers   Markers   `mapstructure:"markers"`
	Selectors Selectors `mapstructure:"selectors"`
}

func setDefault(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

// Init fills unset options with the values of the current UI revision
func (o *Options) Init() {
	setDefault(&o.URL, "http://localhost:4173")
	setDefault(&o.Email, "admin@rockhound.com")
	setDefault(&o.Password, "admin")

	m := &o.Markers
	setDefault(&m.AuthTitle, "Access Protocol")
	setDefault(&m.Brand, "ROCKHOUND")
	setDefault(&m.Splash, "INITIALIZING KERNEL...")
	setDefault(&m.Scanner, "SYSTEM ACTIVE")
	setDefault(&m.Profile, "Operative Profile")
	setDefault(&m.Vault, "Vault")
	setDefault(&m.Admin, "Mainframe Control")
	setDefault(&m.Weather, "Planetary Conditions")
	setDefault(&m.SessionButton, "Initialize Session")
	setDefault(&m.ProtocolButton, "Initialize Protocol")
	setDefault(&m.AuthenticateButton, "Authenticate")

	s := &o.Selectors
	setDefault(&s.EmailInput, `input[type="email"]`)
	setDefault(&s.PasswordInput, `input[type="password"]`)
	setDefault(&s.ProfileToggle, "header div.cursor-pointer")
	setDefault(&s.CloseButton, "button:has(svg.lucide-x)")
	setDefault(&s.VaultButton, "button:has(svg.lucide-box)")
	setDefault(&s.AdminButton, "header button:has(svg.lucide-terminal)")
	setDefault(&s.BackButton, "button:has(svg.lucide-arrow-left)")
	setDefault(&s.WeatherButton, "header button:has(svg.lucide-cloud-sun)")
}
