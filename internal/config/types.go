package config

import "time"

// Config is the top-level codepane configuration, corresponding to
// .codepane.yml.
type Config struct {
	Port                int      `yaml:"port" koanf:"port"`
	SourceBase          string   `yaml:"source_base" koanf:"source_base"`
	Allowed             []string `yaml:"allowed" koanf:"allowed"`
	Theme               string   `yaml:"theme" koanf:"theme"`
	LightStyle          string   `yaml:"light_style" koanf:"light_style"`
	DarkStyle           string   `yaml:"dark_style" koanf:"dark_style"`
	HighlightSource     string   `yaml:"highlight_source" koanf:"highlight_source"`
	FetchTimeoutSeconds int      `yaml:"fetch_timeout_seconds" koanf:"fetch_timeout_seconds"`
	AllowAllOrigins     bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// FetchTimeout returns the transport timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
