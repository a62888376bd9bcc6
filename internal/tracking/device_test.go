package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/betavietvn/leadtrack/internal/domain"
	"github.com/betavietvn/leadtrack/pkg/fingerprint"
)

func testEnvironment() domain.Environment {
	return domain.Environment{
		UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0 Safari/537.36",
		Language:            "vi-VN",
		TimezoneOffsetMin:   -420,
		Platform:            "Win32",
		HardwareConcurrency: 8,
		ColorDepth:          24,
		ScreenWidth:         1920,
		ScreenHeight:        1080,
		CookiesEnabled:      true,
		Plugins:             []string{"PDF Viewer", "Chrome PDF Viewer"},
	}
}

// The fingerprint is the cross-session correlation key, so its component list
// and order are a wire contract: user agent, language, timezone offset,
// platform, hardware concurrency, color depth, resolution, cookie flag,
// plugins.
func TestBuildDeviceInfo_FingerprintComponents(t *testing.T) {
	env := testEnvironment()

	info := BuildDeviceInfo(env)

	want := fingerprint.FromComponents([]string{
		env.UserAgent,
		"vi-VN",
		"-420",
		"Win32",
		"8",
		"24",
		"1920x1080",
		"true",
		"PDF Viewer,Chrome PDF Viewer",
	})
	assert.Equal(t, want, info.DeviceFingerprint)
}

func TestBuildDeviceInfo_CookieFlagChangesFingerprint(t *testing.T) {
	env := testEnvironment()
	withCookies := BuildDeviceInfo(env)

	env.CookiesEnabled = false
	withoutCookies := BuildDeviceInfo(env)

	assert.NotEqual(t, withCookies.DeviceFingerprint, withoutCookies.DeviceFingerprint)
}

func TestBuildDeviceInfo_DerivedFields(t *testing.T) {
	info := BuildDeviceInfo(testEnvironment())

	assert.Equal(t, "desktop", info.DeviceType)
	assert.Equal(t, "Windows", info.OS)
	assert.Equal(t, "Chrome", info.BrowserName)
	assert.Equal(t, "1920x1080", info.ScreenResolution)
	assert.Equal(t, "vi-VN", info.BrowserLanguage)
	assert.True(t, info.CookiesEnabled)
}
