package config

import (
	"os"
	"regexp"
	"strings"
)

// ThemeConfig holds the light and dark DaisyUI theme names used by the pages.
type ThemeConfig struct {
	Light string
	Dark  string
}

var themesPattern = regexp.MustCompile(`themes:\s*([a-zA-Z0-9-]+)\s+--default\s*,\s*([a-zA-Z0-9-]+)\s+--prefersdark`)

// DefaultThemes is used when static/css/input.css is missing or has no themes line.
var DefaultThemes = ThemeConfig{Light: "garden", Dark: "dim"}

// GetThemes reads the theme pair from static/css/input.css.
// Expected line: themes: <light> --default, <dark> --prefersdark;
func GetThemes() ThemeConfig {
	return LoadThemes("static/css/input.css")
}

// LoadThemes parses the theme pair from the CSS file at path.
func LoadThemes(path string) ThemeConfig {
	content, err := os.ReadFile(path)
	if err != nil {
		return DefaultThemes
	}
	if themes, ok := parseThemesFromCSS(string(content)); ok {
		return themes
	}
	return DefaultThemes
}

func parseThemesFromCSS(content string) (ThemeConfig, bool) {
	matches := themesPattern.FindStringSubmatch(content)
	if len(matches) != 3 {
		return ThemeConfig{}, false
	}
	return ThemeConfig{
		Light: strings.TrimSpace(matches[1]),
		Dark:  strings.TrimSpace(matches[2]),
	}, true
}
