package network

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ProxyProvider provides proxy configuration.
type ProxyProvider interface {
	GetProxyURL(ctx context.Context) string
}

// StaticProxy is a ProxyProvider returning a fixed URL; empty disables proxying.
type StaticProxy string

func (p StaticProxy) GetProxyURL(context.Context) string { return strings.TrimSpace(string(p)) }

// ClientFactory creates HTTP clients with proxy configuration.
type ClientFactory struct {
	proxyProvider  ProxyProvider
	testHTTPClient *http.Client // For testing only
}

// NewClientFactory creates a new client factory.
func NewClientFactory(proxyProvider ProxyProvider) *ClientFactory {
	if proxyProvider == nil {
		proxyProvider = StaticProxy("")
	}
	return &ClientFactory{proxyProvider: proxyProvider}
}

// NewClientFactoryForTest creates a client factory that always returns client.
func NewClientFactoryForTest(client *http.Client) *ClientFactory {
	return &ClientFactory{
		proxyProvider:  StaticProxy(""),
		testHTTPClient: client,
	}
}

// NewHTTPClient creates a standard http.Client with proxy configuration.
func (f *ClientFactory) NewHTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	if f.testHTTPClient != nil {
		return f.testHTTPClient
	}
	return &http.Client{Timeout: timeout, Transport: f.NewHTTPTransport(ctx)}
}

// NewHTTPTransport creates an http.Transport honoring the configured http(s) proxy.
// Unparseable or non-HTTP proxy URLs are ignored.
func (f *ClientFactory) NewHTTPTransport(ctx context.Context) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil

	proxyURL := f.proxyProvider.GetProxyURL(ctx)
	if proxyURL == "" {
		return transport
	}
	parsed, err := url.Parse(proxyURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return transport
	}
	transport.Proxy = http.ProxyURL(parsed)
	return transport
}

// ExtractHost returns host[:port] of rawURL, or "" if it has none.
func ExtractHost(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return parsed.Host
}
