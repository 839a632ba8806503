package roblox

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/crmarques/bloxsync/remote"
)

const (
	defaultAPIBaseURL     = "https://apis.roblox.com"
	defaultBadgesBaseURL  = "https://badges.roblox.com"
	defaultDevelopBaseURL = "https://develop.roblox.com"

	defaultHTTPTimeout       = 30 * time.Second
	defaultRequestsPerMinute = 60
	defaultBurst             = 10
)

var _ remote.Gateway = (*OpenCloudGateway)(nil)

// OpenCloudGateway talks to the Roblox platform: the Open Cloud API for
// everything key-authenticated, the badges host for badge listing, and the
// cookie-authenticated develop API for universe configuration.
type OpenCloudGateway struct {
	apiKey     string
	cookie     string
	universeID int64

	creatorID   int64
	creatorType string

	rawAPIBase     string
	rawBadgesBase  string
	rawDevelopBase string

	apiBaseURL     *url.URL
	badgesBaseURL  *url.URL
	developBaseURL *url.URL

	client  *http.Client
	limiter *rate.Limiter

	csrfMu    sync.Mutex
	csrfToken string
}

type GatewayOption func(*OpenCloudGateway)

// WithCookie supplies the .ROBLOSECURITY value that elevates the universe
// configuration call. Everything else runs on the API key alone.
func WithCookie(cookie string) GatewayOption {
	return func(g *OpenCloudGateway) {
		if g == nil {
			return
		}
		g.cookie = strings.TrimSpace(cookie)
	}
}

// WithCreator names the user or group that owns uploaded image assets.
// Required only when the gateway will upload icons.
func WithCreator(id int64, creatorType string) GatewayOption {
	return func(g *OpenCloudGateway) {
		if g == nil {
			return
		}
		g.creatorID = id
		g.creatorType = strings.ToLower(strings.TrimSpace(creatorType))
	}
}

func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *OpenCloudGateway) {
		if g == nil || client == nil {
			return
		}
		g.client = client
	}
}

// WithBaseURLs points the gateway at alternate hosts. Tests aim all three at
// local servers; empty values keep the platform defaults.
func WithBaseURLs(api string, badges string, develop string) GatewayOption {
	return func(g *OpenCloudGateway) {
		if g == nil {
			return
		}
		if strings.TrimSpace(api) != "" {
			g.rawAPIBase = api
		}
		if strings.TrimSpace(badges) != "" {
			g.rawBadgesBase = badges
		}
		if strings.TrimSpace(develop) != "" {
			g.rawDevelopBase = develop
		}
	}
}

// WithRateLimit replaces the default client-side pacing of 60 requests per
// minute with burst 10. A non-positive perMinute disables pacing.
func WithRateLimit(perMinute int, burst int) GatewayOption {
	return func(g *OpenCloudGateway) {
		if g == nil {
			return
		}
		if perMinute <= 0 {
			g.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
	}
}

func NewOpenCloudGateway(apiKey string, universeID int64, opts ...GatewayOption) (*OpenCloudGateway, error) {
	gateway := &OpenCloudGateway{
		apiKey:         strings.TrimSpace(apiKey),
		universeID:     universeID,
		rawAPIBase:     defaultAPIBaseURL,
		rawBadgesBase:  defaultBadgesBaseURL,
		rawDevelopBase: defaultDevelopBaseURL,
		client:         &http.Client{Timeout: defaultHTTPTimeout},
		limiter:        rate.NewLimiter(rate.Every(time.Minute/defaultRequestsPerMinute), defaultBurst),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(gateway)
	}

	if gateway.apiKey == "" {
		return nil, authError("roblox api key is required", nil)
	}
	if gateway.universeID <= 0 {
		return nil, validationError("universe id must be positive", nil)
	}
	if gateway.creatorType != "" && gateway.creatorType != "user" && gateway.creatorType != "group" {
		return nil, validationError("creator type must be user or group", nil)
	}
	if gateway.creatorType != "" && gateway.creatorID <= 0 {
		return nil, validationError("creator id must be positive", nil)
	}

	var err error
	if gateway.apiBaseURL, err = parseBaseURL("api", gateway.rawAPIBase); err != nil {
		return nil, err
	}
	if gateway.badgesBaseURL, err = parseBaseURL("badges", gateway.rawBadgesBase); err != nil {
		return nil, err
	}
	if gateway.developBaseURL, err = parseBaseURL("develop", gateway.rawDevelopBase); err != nil {
		return nil, err
	}

	return gateway, nil
}

func parseBaseURL(label string, raw string) (*url.URL, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, validationError(label+" base url is required", nil)
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return nil, validationError(label+" base url is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, validationError(label+" base url must use http or https", nil)
	}
	if parsed.Host == "" {
		return nil, validationError(label+" base url host is required", nil)
	}

	if parsed.Path == "" {
		parsed.Path = "/"
	}

	return parsed, nil
}
