package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// HTTPTemplateFetcher downloads template HTML from the template store's
// public bucket.
type HTTPTemplateFetcher struct {
	client   *http.Client
	allowed  map[string]bool
	maxBytes int64
}

// NewHTTPTemplateFetcher restricts fetches to URLs whose registrable domain
// (eTLD+1) is in allowedDomains. An empty list allows any https host.
func NewHTTPTemplateFetcher(allowedDomains []string, maxBytes int64) *HTTPTemplateFetcher {
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &HTTPTemplateFetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		allowed:  domainSet(allowedDomains),
		maxBytes: maxBytes,
	}
}

func (f *HTTPTemplateFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("template url: %w", err)
	}
	if err := f.checkHost(u); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("template fetch returned status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(b)) > f.maxBytes {
		return "", fmt.Errorf("template larger than %d bytes", f.maxBytes)
	}
	return string(b), nil
}

func (f *HTTPTemplateFetcher) checkHost(u *url.URL) error {
	if len(f.allowed) == 0 {
		if u.Scheme != "https" {
			return fmt.Errorf("template url must use https: %s", u.Redacted())
		}
		return nil
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("unsupported template url scheme %q", u.Scheme)
	}
	if !f.allowed[registrableDomain(u.Hostname())] {
		return fmt.Errorf("template host %q is not allowed", u.Hostname())
	}
	return nil
}

func domainSet(domains []string) map[string]bool {
	set := make(map[string]bool, len(domains))
	for _, d := range domains {
		set[registrableDomain(d)] = true
	}
	return set
}

func registrableDomain(host string) string {
	host = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), "www.")
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld
	}
	return host
}
