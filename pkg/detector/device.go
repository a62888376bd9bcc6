package detector

import (
	"regexp"
	"strings"
)

var (
	tabletRegex = regexp.MustCompile(`(?i)iPad|tablet|Kindle|PlayBook`)
	mobileRegex = regexp.MustCompile(`(?i)Mobile|Android|iPhone|iPod|webOS|BlackBerry|IEMobile|Opera Mini`)
)

// DetectDeviceType classifies a user agent as desktop, mobile or tablet.
// Tablets are checked first because most tablet UAs also carry mobile markers.
func DetectDeviceType(userAgent string) string {
	if tabletRegex.MatchString(userAgent) {
		return "tablet"
	}
	if mobileRegex.MatchString(userAgent) {
		return "mobile"
	}
	return "desktop"
}

type uaPattern struct {
	name  string
	regex *regexp.Regexp
}

// Order matters: Edge UAs contain "Chrome", Chrome UAs contain "Safari".
var browserPatterns = []uaPattern{
	{"Edge", regexp.MustCompile(`(?i)Edge/(\d+)`)},
	{"Chrome", regexp.MustCompile(`(?i)Chrome/(\d+)`)},
	{"Firefox", regexp.MustCompile(`(?i)Firefox/(\d+)`)},
	{"Safari", regexp.MustCompile(`(?i)Version/(\d+).*Safari`)},
	{"IE", regexp.MustCompile(`(?i)MSIE (\d+)`)},
	{"Opera", regexp.MustCompile(`(?i)OPR/(\d+)`)},
}

// DetectBrowser returns the browser name and major version parsed from the
// user agent, or ("Unknown", "0").
func DetectBrowser(userAgent string) (string, string) {
	for _, bp := range browserPatterns {
		if m := bp.regex.FindStringSubmatch(userAgent); m != nil {
			return bp.name, m[1]
		}
	}
	return "Unknown", "0"
}

var osPatterns = []uaPattern{
	{"Windows", regexp.MustCompile(`(?i)Windows NT (\d+\.\d+)`)},
	{"macOS", regexp.MustCompile(`(?i)Mac OS X (\d+[._]\d+)`)},
	{"iOS", regexp.MustCompile(`(?i)iPhone OS (\d+[._]\d+)`)},
	{"Android", regexp.MustCompile(`(?i)Android (\d+(?:\.\d+)?)`)},
	{"Linux", regexp.MustCompile(`(?i)(Linux)`)},
}

// DetectOS returns the operating system name and version parsed from the user
// agent, or ("Unknown", "0").
func DetectOS(userAgent string) (string, string) {
	for _, op := range osPatterns {
		if m := op.regex.FindStringSubmatch(userAgent); m != nil {
			version := "0"
			if len(m) > 1 {
				version = strings.ReplaceAll(m[1], "_", ".")
			}
			if op.name == "Linux" {
				version = "0"
			}
			return op.name, version
		}
	}
	return "Unknown", "0"
}

// GetClientIP resolves the originating client IP from proxy headers, falling
// back to the connection's remote address.
func GetClientIP(remoteAddr, xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xRealIP != "" {
		return xRealIP
	}

	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}

	return remoteAddr
}
