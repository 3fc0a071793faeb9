package config

import (
	"net"
	"strings"
)

const (
	localAPIBaseURL = "http://10.10.11.164:8080/api/v1"
	testAPIBaseURL  = "https://kouraku-test.userside.co.jp/kouraku-api/api/v1"
)

// apiBaseURLs maps the hostname the dashboard is served from to the REST API
// base URL. Hosts not listed use defaultAPIBaseURL.
var apiBaseURLs = map[string]string{
	"localhost":                   localAPIBaseURL,
	"127.0.0.1":                   localAPIBaseURL,
	"10.10.11.54":                 localAPIBaseURL,
	"kouraku-test.userside.co.jp": testAPIBaseURL,
}

const defaultAPIBaseURL = testAPIBaseURL

// ResolveAPIBaseURL picks the API base URL for hostname. A port suffix is
// ignored and matching is case-insensitive.
func ResolveAPIBaseURL(hostname string) string {
	host := strings.ToLower(strings.TrimSpace(hostname))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if u, ok := apiBaseURLs[host]; ok {
		return u
	}
	return defaultAPIBaseURL
}
