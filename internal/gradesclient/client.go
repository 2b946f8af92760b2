package gradesclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dotkom/gradestats/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
)

var (
	ErrUpstreamStatus   = errors.New("unexpected status from grades endpoint")
	ErrMalformedPayload = errors.New("malformed grades payload")
)

// maxPayloadBytes caps how much of an upstream body is read.
const maxPayloadBytes = 4 << 20

// Client loads grade statistics from the grades endpoint.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	cache    *cache.Cache
	validate *validator.Validate
}

// New creates a client for the endpoint rooted at baseURL. Payloads are kept
// for cacheTTL; a zero TTL disables caching.
func New(baseURL string, timeout, cacheTTL time.Duration) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid grades endpoint %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid grades endpoint %q: scheme and host are required", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: &csrfTransport{jar: jar},
		},
		validate: validator.New(),
	}
	if cacheTTL > 0 {
		c.cache = cache.New(cacheTTL, 2*cacheTTL)
	}

	return c, nil
}

// HTTPClient exposes the underlying client, CSRF transport included.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// GradesURL is where the grades of a course are served.
func (c *Client) GradesURL(course string) string {
	return c.baseURL.JoinPath("course", course, "grades").String() + "/"
}

// LoadGrades fetches, decodes and validates the grades of a course.
func (c *Client) LoadGrades(ctx context.Context, course string) (*types.GradesResponse, error) {
	course = normalizeCourse(course)
	if course == "" {
		return nil, fmt.Errorf("course code is required")
	}

	if c.cache != nil {
		if cached, found := c.cache.Get(course); found {
			if resp, ok := cached.(*types.GradesResponse); ok {
				return resp, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GradesURL(course), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build grades request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grades: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, res.StatusCode)
	}

	resp, err := c.decode(io.LimitReader(res.Body, maxPayloadBytes))
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(course, resp, cache.DefaultExpiration)
	}
	log.Printf("Loaded %d semesters for %s", len(resp.Grades), course)

	return resp, nil
}

func (c *Client) decode(r io.Reader) (*types.GradesResponse, error) {
	var resp types.GradesResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if err := c.validate.Struct(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return &resp, nil
}

func normalizeCourse(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
