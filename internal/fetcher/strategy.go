package fetcher

import (
	"fmt"
	"net/url"
)

// DefaultRelayEndpoint answers with the target document verbatim.
const DefaultRelayEndpoint = "https://api.allorigins.win/raw"

// Strategy picks the URL actually requested for the feed. Callers choose one
// according to what their runtime is allowed to reach.
type Strategy interface {
	Resolve(feedURL string) (string, error)
	Name() string
}

// Direct requests the feed URL itself.
type Direct struct{}

func (Direct) Resolve(feedURL string) (string, error) {
	return feedURL, nil
}

func (Direct) Name() string { return "direct" }

// Relay routes the request through a CORS relay that takes the target as the
// "url" query parameter.
type Relay struct {
	Endpoint string
}

func (r Relay) Resolve(feedURL string) (string, error) {
	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = DefaultRelayEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid relay endpoint %q: %w", endpoint, err)
	}
	q := u.Query()
	q.Set("url", feedURL)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (Relay) Name() string { return "relay" }

// StrategyFor maps a configured mode to its strategy.
func StrategyFor(mode, relayEndpoint string) (Strategy, error) {
	switch mode {
	case "", "direct":
		return Direct{}, nil
	case "relay":
		return Relay{Endpoint: relayEndpoint}, nil
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", mode)
	}
}
