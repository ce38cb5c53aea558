package sitemap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

var (
	ErrBaseURLRequired = errors.New("sitemap: http source base url required")
	ErrUpstreamStatus  = errors.New("sitemap: unexpected upstream status")
	ErrPayloadKey      = errors.New("sitemap: payload key missing")
)

const defaultHTTPRetries = 2

// HTTPSource reads the dataset from the public JSON API. Each endpoint
// answers with an object holding the collection under its own key.
type HTTPSource struct {
	baseURL    string
	client     *http.Client
	retries    uint64
	newBackOff func() backoff.BackOff
	logger     interfaces.Logger
}

var _ DataSource = (*HTTPSource)(nil)

// HTTPSourceOption configures an HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient overrides the client used for requests.
func WithHTTPClient(client *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithRetries bounds how many times a failed request is retried.
func WithRetries(retries uint64) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.retries = retries
	}
}

// WithBackOff overrides the retry schedule.
func WithBackOff(factory func() backoff.BackOff) HTTPSourceOption {
	return func(s *HTTPSource) {
		if factory != nil {
			s.newBackOff = factory
		}
	}
}

// WithSourceLogger attaches a logger for retry diagnostics.
func WithSourceLogger(logger interfaces.Logger) HTTPSourceOption {
	return func(s *HTTPSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHTTPSource targets the public API rooted at baseURL, for example
// http://localhost:8080/api/public.
func NewHTTPSource(baseURL string, opts ...HTTPSourceOption) (*HTTPSource, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("sitemap: parse base url: %w", err)
	}
	s := &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		retries: defaultHTTPRetries,
		newBackOff: func() backoff.BackOff {
			policy := backoff.NewExponentialBackOff()
			policy.InitialInterval = 100 * time.Millisecond
			policy.MaxElapsedTime = 3 * time.Second
			return policy
		},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *HTTPSource) ListCategories(ctx context.Context) ([]Category, error) {
	var payload []wireCategory
	if err := s.fetch(ctx, "/categories", 0, "categories", &payload); err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(payload))
	for _, item := range payload {
		out = append(out, Category{ID: string(item.ID), Name: item.Name})
	}
	return out, nil
}

func (s *HTTPSource) ListPosts(ctx context.Context, limit int) ([]Post, error) {
	var payload []wirePost
	if err := s.fetch(ctx, "/posts", limit, "posts", &payload); err != nil {
		return nil, err
	}
	out := make([]Post, 0, len(payload))
	for _, item := range payload {
		out = append(out, item.toPost())
	}
	return limited(out, limit), nil
}

func (s *HTTPSource) ListPages(ctx context.Context, limit int) ([]Page, error) {
	var payload []wirePage
	if err := s.fetch(ctx, "/pages", limit, "pages", &payload); err != nil {
		return nil, err
	}
	out := make([]Page, 0, len(payload))
	for _, item := range payload {
		out = append(out, Page{ID: string(item.ID), Title: item.Title, Slug: item.Slug})
	}
	return limited(out, limit), nil
}

func (s *HTTPSource) ListMenus(ctx context.Context) ([]Menu, error) {
	var payload []wireMenu
	if err := s.fetch(ctx, "/menus", 0, "menus", &payload); err != nil {
		return nil, err
	}
	out := make([]Menu, 0, len(payload))
	for _, item := range payload {
		out = append(out, item.toMenu())
	}
	return out, nil
}

func (s *HTTPSource) fetch(ctx context.Context, path string, limit int, key string, out any) error {
	target := s.baseURL + path
	if limit > 0 {
		target += "?" + url.Values{"limit": []string{strconv.Itoa(limit)}}.Encode()
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("sitemap: build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("sitemap: get %s: %w", path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			err := fmt.Errorf("%w: %s answered %d", ErrUpstreamStatus, path, resp.StatusCode)
			if resp.StatusCode < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}

		var envelope map[string]json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return backoff.Permanent(fmt.Errorf("sitemap: decode %s: %w", path, err))
		}
		raw, ok := envelope[key]
		if !ok {
			return backoff.Permanent(fmt.Errorf("%w: %q in %s", ErrPayloadKey, key, path))
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return backoff.Permanent(fmt.Errorf("sitemap: decode %s: %w", key, err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), s.retries), ctx)
	return backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		logging.WithFields(s.logger, map[string]any{
			"path":  path,
			"wait":  wait.String(),
			"error": err.Error(),
		}).Debug("sitemap.http_source.retry")
	})
}

// wireID accepts identifiers encoded as JSON strings or numbers.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*id = wireID(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("sitemap: id must be a string or number: %w", err)
	}
	*id = wireID(number.String())
	return nil
}

type wireCategory struct {
	ID   wireID `json:"id"`
	Name string `json:"name"`
}

type wirePost struct {
	ID           wireID        `json:"id"`
	Title        string        `json:"title"`
	Slug         string        `json:"slug"`
	CategoryName string        `json:"category_name"`
	Category     *wireCategory `json:"category"`
}

func (p wirePost) toPost() Post {
	name := p.CategoryName
	if name == "" && p.Category != nil {
		name = p.Category.Name
	}
	return Post{ID: string(p.ID), Title: p.Title, Slug: p.Slug, CategoryName: name}
}

type wirePage struct {
	ID    wireID `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type wireMenuItem struct {
	ID    wireID  `json:"id"`
	Title string  `json:"title"`
	URL   *string `json:"url"`
}

// wireMenu accepts the item list as `items` or `menuItems`; `items` wins
// when both are present.
type wireMenu struct {
	ID        wireID         `json:"id"`
	Name      string         `json:"name"`
	Items     []wireMenuItem `json:"items"`
	MenuItems []wireMenuItem `json:"menuItems"`
}

func (m wireMenu) toMenu() Menu {
	items := m.Items
	if items == nil {
		items = m.MenuItems
	}
	menu := Menu{ID: string(m.ID), Name: m.Name, Items: make([]MenuItem, 0, len(items))}
	for _, item := range items {
		entry := MenuItem{ID: string(item.ID), Title: item.Title}
		if item.URL != nil {
			entry.URL = *item.URL
		}
		menu.Items = append(menu.Items, entry)
	}
	return menu
}
