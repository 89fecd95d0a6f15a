package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. The caller is responsible for saving it.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to codepane! Let's configure your embed server.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Source base URL for relative file references.
	basePrompt := promptui.Prompt{
		Label:   "Base URL for relative file references",
		Default: cfg.SourceBase,
	}
	sourceBase, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source base: %w", err)
	}
	cfg.SourceBase = strings.TrimSpace(sourceBase)

	// 2. Allowed host/path patterns.
	allowedPrompt := promptui.Prompt{
		Label:   "Allowed fetch patterns (comma-separated globs)",
		Default: strings.Join(cfg.Allowed, ","),
	}
	allowedStr, err := allowedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed patterns: %w", err)
	}
	cfg.Allowed = splitAndTrim(allowedStr)

	// 3. Default theme mode.
	themePrompt := promptui.Select{
		Label: "Default theme",
		Items: []string{"auto", "light", "dark"},
	}
	_, themeStr, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}
	cfg.Theme = themeStr

	// 4. Highlight styles.
	lightPrompt := promptui.Prompt{
		Label:   "Light highlight style",
		Default: cfg.LightStyle,
	}
	if cfg.LightStyle, err = lightPrompt.Run(); err != nil {
		return nil, fmt.Errorf("light style: %w", err)
	}
	darkPrompt := promptui.Prompt{
		Label:   "Dark highlight style",
		Default: cfg.DarkStyle,
	}
	if cfg.DarkStyle, err = darkPrompt.Run(); err != nil {
		return nil, fmt.Errorf("dark style: %w", err)
	}

	// 5. Listen port.
	portPrompt := promptui.Prompt{
		Label:   "Listen port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitAndTrim splits a comma-separated string, trimming whitespace and
// dropping empties.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
