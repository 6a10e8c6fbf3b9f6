package device

import (
	"net/http/httptest"
	"testing"
)

func TestIsMobile(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want bool
	}{
		{"empty", "", false},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148", true},
		{"ipod", "Mozilla/5.0 (iPod touch; CPU iPhone OS 12_0 like Mac OS X)", true},
		{"android phone", "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36", true},
		{"android tablet", "Mozilla/5.0 (Linux; Android 13; SM-X700 Tablet) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", false},
		{"android without mobile token", "Mozilla/5.0 (Linux; Android 13; SM-X700) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", false},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148", false},
		{"desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMobile(tt.ua); got != tt.want {
				t.Errorf("IsMobile(%q) = %v, want %v", tt.ua, got, tt.want)
			}
		})
	}
}

func TestIsMobileRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)")
	if !IsMobileRequest(r) {
		t.Errorf("IsMobileRequest() = false for an iPhone")
	}
}
