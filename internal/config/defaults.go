package config

// DefaultAllowed permits fetching from the common public raw-content
// hosts. Deployments embedding private sources tighten or replace this.
var DefaultAllowed = []string{
	"raw.githubusercontent.com/**",
	"gist.githubusercontent.com/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:                8433,
		SourceBase:          "https://raw.githubusercontent.com",
		Allowed:             DefaultAllowed,
		Theme:               "auto",
		LightStyle:          "github",
		DarkStyle:           "github-dark",
		FetchTimeoutSeconds: 15,
	}
}
