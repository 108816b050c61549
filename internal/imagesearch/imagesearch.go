// Package imagesearch finds stock photos for articles and slides through the
// Unsplash search API, with deterministic placeholders when it cannot.
package imagesearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-firmsite/internal/identity"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/util"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
	"github.com/goliatone/go-slug"
)

const (
	DefaultBaseURL = "https://api.unsplash.com"
	DefaultPerPage = 12

	defaultTimeout   = 10 * time.Second
	placeholderCount = 6
	placeholderHost  = "https://picsum.photos"
)

// Image is one search hit.
type Image struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Attribution  string `json:"attribution"`
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Searcher) {
		if client != nil {
			s.client = client
		}
	}
}

// WithBaseURL points the searcher at another API host.
func WithBaseURL(baseURL string) Option {
	return func(s *Searcher) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			s.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithPerPage sets how many results a search returns.
func WithPerPage(perPage int) Option {
	return func(s *Searcher) {
		if perPage > 0 {
			s.perPage = perPage
		}
	}
}

// WithLogger sets the searcher logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Searcher queries the image API.
type Searcher struct {
	client  *http.Client
	baseURL string
	perPage int
	logger  interfaces.Logger
}

// New builds a searcher. timeout applies when no client is supplied.
func New(timeout time.Duration, opts ...Option) *Searcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	s := &Searcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: DefaultBaseURL,
		perPage: DefaultPerPage,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type searchResponse struct {
	Results []struct {
		ID   string `json:"id"`
		URLs struct {
			Regular string `json:"regular"`
			Small   string `json:"small"`
			Thumb   string `json:"thumb"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

// Search returns images for query. Without an access key, or when the API
// fails or finds nothing, it returns Placeholders(query).
func (s *Searcher) Search(ctx context.Context, query, accessKey string) []Image {
	query = strings.TrimSpace(query)
	accessKey = strings.TrimSpace(accessKey)
	if accessKey == "" || query == "" {
		return Placeholders(query)
	}
	images, err := s.search(ctx, query, accessKey)
	if err != nil {
		logging.WithFields(s.logger, map[string]any{"query": query}).Warn("imagesearch.search.failed", "error", err)
		return Placeholders(query)
	}
	if len(images) == 0 {
		return Placeholders(query)
	}
	return images
}

func (s *Searcher) search(ctx context.Context, query, accessKey string) ([]Image, error) {
	endpoint, err := url.JoinPath(s.baseURL, "search", "photos")
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(s.perPage))
	params.Set("orientation", "landscape")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+accessKey)
	req.Header.Set("Accept-Version", "v1")

	var reply searchResponse
	if err := util.DoJSON(ctx, s.client, req, &reply); err != nil {
		return nil, err
	}
	images := make([]Image, 0, len(reply.Results))
	for _, result := range reply.Results {
		if result.URLs.Regular == "" {
			continue
		}
		images = append(images, Image{
			ID:           result.ID,
			URL:          result.URLs.Regular,
			ThumbnailURL: util.FirstNonEmpty(result.URLs.Small, result.URLs.Thumb, result.URLs.Regular),
			Attribution:  attribution(result.User.Name),
		})
	}
	return images, nil
}

func attribution(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return "Unsplash"
	}
	return name + " / Unsplash"
}

// Placeholders returns stable stand-in images for query.
func Placeholders(query string) []Image {
	seed := placeholderSeed(query)
	images := make([]Image, 0, placeholderCount)
	for i := 1; i <= placeholderCount; i++ {
		id := fmt.Sprintf("%s-%d", seed, i)
		images = append(images, Image{
			ID:           "placeholder-" + id,
			URL:          fmt.Sprintf("%s/seed/%s/1200/800", placeholderHost, id),
			ThumbnailURL: fmt.Sprintf("%s/seed/%s/400/300", placeholderHost, id),
			Attribution:  "Lorem Picsum",
		})
	}
	return images
}

func placeholderSeed(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "law"
	}
	if normalized, err := slug.Normalize(query); err == nil && normalized != "" {
		return normalized
	}
	return identity.UUID("imagesearch:" + query).String()[:8]
}
