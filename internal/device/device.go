package device

import (
	"net/http"
	"strings"
)

// IsMobile reports whether the user agent belongs to a phone. Tablets and
// desktops get the desktop layout.
func IsMobile(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return false
	}

	if strings.Contains(ua, "iphone") || strings.Contains(ua, "ipod") {
		return true
	}

	if strings.Contains(ua, "android") {
		if strings.Contains(ua, "tablet") || strings.Contains(ua, "pad") {
			return false
		}
		return strings.Contains(ua, "mobile")
	}

	return false
}

// IsMobileRequest applies IsMobile to the request's User-Agent header.
func IsMobileRequest(r *http.Request) bool {
	return IsMobile(r.UserAgent())
}
