package main

import (
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// submitTimeoutSeconds bounds every request made against the host service.
const submitTimeoutSeconds = 30

// BrowserProfile pairs a TLS client profile with the matching user agent.
// The user agent must match the TLS fingerprint.
type BrowserProfile struct {
	TLSProfile profiles.ClientProfile
	UserAgent  string
}

const Chrome133UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

// Chrome133Profile is the browser profile for Chrome 133 on Windows.
var Chrome133Profile = &BrowserProfile{
	TLSProfile: profiles.Chrome_133,
	UserAgent:  Chrome133UserAgent,
}

// DefaultProfile is the browser profile used for new clients.
var DefaultProfile = Chrome133Profile

func NewClient(logger tls_client.Logger, proxyURL string) (tls_client.HttpClient, error) {
	return NewClientWithProfile(logger, proxyURL, DefaultProfile.TLSProfile)
}

// NewClientWithProfile builds a client that never follows redirects and keeps
// no cookie jar: the session cookie travels verbatim in the Cookie header.
func NewClientWithProfile(logger tls_client.Logger, proxyURL string, profile profiles.ClientProfile) (tls_client.HttpClient, error) {
	if logger == nil {
		logger = tls_client.NewNoopLogger()
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(submitTimeoutSeconds),
		tls_client.WithClientProfile(profile),
		tls_client.WithRandomTLSExtensionOrder(),
		tls_client.WithNotFollowRedirects(),
	}

	if proxyURL != "" {
		options = append(options, tls_client.WithProxyUrl(proxyURL))
	}

	return tls_client.NewHttpClient(logger, options...)
}
