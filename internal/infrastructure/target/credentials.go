package target

import (
	"errors"
	"net/url"
	"strings"
)

// Credential validation errors.
var (
	ErrMissingBaseURL        = errors.New("target: missing base URL")
	ErrInvalidBaseURL        = errors.New("target: invalid base URL")
	ErrMissingConsumerKey    = errors.New("target: missing consumer key")
	ErrMissingConsumerSecret = errors.New("target: missing consumer secret")
)

// Credentials identify and authenticate against the target store's REST API.
// The consumer key/secret pair is sent as HTTP Basic auth on every request,
// and additionally as query parameters on the endpoints that require it.
type Credentials struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
}

// Validate checks the credentials and normalizes the base URL.
func (c *Credentials) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidBaseURL
	}
	if c.ConsumerKey == "" {
		return ErrMissingConsumerKey
	}
	if c.ConsumerSecret == "" {
		return ErrMissingConsumerSecret
	}
	return nil
}
