package domain

// Environment carries the raw browser/runtime facts the pipeline is given at
// construction time. It is the injected stand-in for the navigator, screen
// and window objects, so tests and the simulator can shape it freely.
type Environment struct {
	UserAgent              string   `json:"user_agent"`
	Language               string   `json:"language"`
	Languages              []string `json:"languages"`
	TimezoneOffsetMin      int      `json:"timezone_offset_min"`
	Timezone               string   `json:"timezone"`
	Platform               string   `json:"platform"`
	HardwareConcurrency    int      `json:"hardware_concurrency"`
	ColorDepth             int      `json:"color_depth"`
	ScreenWidth            int      `json:"screen_width"`
	ScreenHeight           int      `json:"screen_height"`
	CookiesEnabled         bool     `json:"cookies_enabled"`
	LocalStorageAvailable  bool     `json:"local_storage_available"`
	Plugins                []string `json:"plugins"`
	WebDriver              bool     `json:"webdriver"`
	AutomationGlobals      []string `json:"automation_globals"`
	NotificationPermission string   `json:"notification_permission"`
	PermissionQueryFailed  bool     `json:"permission_query_failed"`
}

// DeviceInfo is derived once from the Environment and is immutable for the
// session.
type DeviceInfo struct {
	DeviceType            string `json:"device_type"`
	OS                    string `json:"os"`
	OSVersion             string `json:"os_version"`
	ScreenResolution      string `json:"screen_resolution"`
	DeviceFingerprint     string `json:"device_fingerprint"`
	UserAgent             string `json:"user_agent"`
	BrowserName           string `json:"browser_name"`
	BrowserVersion        string `json:"browser_version"`
	BrowserLanguage       string `json:"browser_language"`
	CookiesEnabled        bool   `json:"cookies_enabled"`
	LocalStorageAvailable bool   `json:"local_storage_available"`
}

// NetworkInfo is populated out of band (server side or a third-party lookup);
// zero values mean unknown.
type NetworkInfo struct {
	IP             string `json:"ip"`
	Country        string `json:"country"`
	City           string `json:"city"`
	Region         string `json:"region"`
	Timezone       string `json:"timezone"`
	ISP            string `json:"isp"`
	ConnectionType string `json:"connection_type"`
	IsProxy        bool   `json:"is_proxy"`
	IsVPN          bool   `json:"is_vpn"`
	IsTor          bool   `json:"is_tor"`
}
