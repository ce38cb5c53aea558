package sitemap

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// LinkBuilder produces the hrefs used by the fragment.
type LinkBuilder interface {
	Home() string
	Blog() string
	Sitemap() string
	Page(slug string) string
	Post(slug string) string
	Category(id string) string
}

// DefaultLinks emits the site's fixed paths.
type DefaultLinks struct{}

var _ LinkBuilder = DefaultLinks{}

func (DefaultLinks) Home() string    { return "/" }
func (DefaultLinks) Blog() string    { return "/blog" }
func (DefaultLinks) Sitemap() string { return "/sitemap" }

func (DefaultLinks) Page(slug string) string {
	return "/" + url.PathEscape(slug)
}

func (DefaultLinks) Post(slug string) string {
	return "/post/" + url.PathEscape(slug)
}

func (DefaultLinks) Category(id string) string {
	return "/blog?" + url.Values{"category": []string{id}}.Encode()
}

// URLKitRoutes names the go-urlkit route used for each link kind. Empty names
// use the fallback builder.
type URLKitRoutes struct {
	Home     string
	Blog     string
	Sitemap  string
	Page     string
	Post     string
	Category string
}

// URLKitLinks resolves links through a go-urlkit route group. Page and post
// routes receive a `slug` param; the category route receives a `category`
// query value.
type URLKitLinks struct {
	manager  *urlkit.RouteManager
	path     string
	routes   URLKitRoutes
	fallback LinkBuilder
	logger   interfaces.Logger

	once  sync.Once
	group *urlkit.Group
	err   error
}

var _ LinkBuilder = (*URLKitLinks)(nil)

// NewURLKitLinks builds links from the group at path (dot separated for
// nested groups).
func NewURLKitLinks(manager *urlkit.RouteManager, path string, routes URLKitRoutes, fallback LinkBuilder, logger interfaces.Logger) *URLKitLinks {
	if fallback == nil {
		fallback = DefaultLinks{}
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &URLKitLinks{
		manager:  manager,
		path:     strings.TrimSpace(path),
		routes:   routes,
		fallback: fallback,
		logger:   logger,
	}
}

func (l *URLKitLinks) Home() string {
	return l.build(l.routes.Home, nil, nil, l.fallback.Home)
}

func (l *URLKitLinks) Blog() string {
	return l.build(l.routes.Blog, nil, nil, l.fallback.Blog)
}

func (l *URLKitLinks) Sitemap() string {
	return l.build(l.routes.Sitemap, nil, nil, l.fallback.Sitemap)
}

func (l *URLKitLinks) Page(slug string) string {
	return l.build(l.routes.Page, map[string]any{"slug": slug}, nil, func() string { return l.fallback.Page(slug) })
}

func (l *URLKitLinks) Post(slug string) string {
	return l.build(l.routes.Post, map[string]any{"slug": slug}, nil, func() string { return l.fallback.Post(slug) })
}

func (l *URLKitLinks) Category(id string) string {
	return l.build(l.routes.Category, nil, map[string]string{"category": id}, func() string { return l.fallback.Category(id) })
}

func (l *URLKitLinks) build(route string, params map[string]any, query map[string]string, fallback func() string) string {
	route = strings.TrimSpace(route)
	if route == "" || l.manager == nil || l.path == "" {
		return fallback()
	}
	group, err := l.resolveGroup()
	if err == nil {
		var link string
		link, err = buildRoute(group, route, params, query)
		if err == nil && link != "" {
			return link
		}
	}
	if err != nil {
		logging.WithFields(l.logger, map[string]any{
			"route": route,
			"group": l.path,
			"error": err.Error(),
		}).Warn("sitemap.links.urlkit_failed")
	}
	return fallback()
}

func (l *URLKitLinks) resolveGroup() (*urlkit.Group, error) {
	l.once.Do(func() {
		parts := strings.Split(l.path, ".")
		var group *urlkit.Group
		group, l.err = safeGroup(func() *urlkit.Group { return l.manager.Group(parts[0]) }, parts[0])
		for _, part := range parts[1:] {
			if l.err != nil {
				break
			}
			parent := group
			group, l.err = safeGroup(func() *urlkit.Group { return parent.Group(part) }, part)
		}
		l.group = group
	})
	return l.group, l.err
}

func safeGroup(lookup func() *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sitemap: route group %q not found", name)
		}
	}()
	group = lookup()
	if group == nil {
		err = fmt.Errorf("sitemap: route group %q not found", name)
	}
	return group, err
}

func buildRoute(group *urlkit.Group, route string, params map[string]any, query map[string]string) (link string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sitemap: urlkit builder panic: %v", rec)
		}
	}()
	builder := group.Builder(route)
	for key, value := range params {
		builder.WithParam(key, value)
	}
	for key, value := range query {
		builder.WithQuery(key, value)
	}
	return builder.Build()
}
