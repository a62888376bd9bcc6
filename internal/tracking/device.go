package tracking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/betavietvn/leadtrack/internal/domain"
	"github.com/betavietvn/leadtrack/pkg/detector"
	"github.com/betavietvn/leadtrack/pkg/fingerprint"
)

// BuildDeviceInfo derives the per-session device record from the raw
// environment. The fingerprint component order is fixed; changing it breaks
// visit correlation for every returning visitor.
func BuildDeviceInfo(env domain.Environment) domain.DeviceInfo {
	browser, browserVersion := detector.DetectBrowser(env.UserAgent)
	os, osVersion := detector.DetectOS(env.UserAgent)

	resolution := fmt.Sprintf("%dx%d", env.ScreenWidth, env.ScreenHeight)

	components := []string{
		env.UserAgent,
		env.Language,
		strconv.Itoa(env.TimezoneOffsetMin),
		env.Platform,
		strconv.Itoa(env.HardwareConcurrency),
		strconv.Itoa(env.ColorDepth),
		resolution,
		strconv.FormatBool(env.CookiesEnabled),
		strings.Join(env.Plugins, ","),
	}

	return domain.DeviceInfo{
		DeviceType:            detector.DetectDeviceType(env.UserAgent),
		OS:                    os,
		OSVersion:             osVersion,
		ScreenResolution:      resolution,
		DeviceFingerprint:     fingerprint.FromComponents(components),
		UserAgent:             env.UserAgent,
		BrowserName:           browser,
		BrowserVersion:        browserVersion,
		BrowserLanguage:       env.Language,
		CookiesEnabled:        env.CookiesEnabled,
		LocalStorageAvailable: env.LocalStorageAvailable,
	}
}
