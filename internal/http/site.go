package http

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/internal/sitemap"
)

// sitemapContent is the body of the /sitemap page.
const sitemapContent = "[sitemap]"

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} | {{.SiteName}}</title>
</head>
<body>
<header class="site-header"><nav><a href="{{home}}">Home</a> <a href="{{blog}}">Blog</a> <a href="{{sitemap}}">Sitemap</a></nav></header>
<main class="site-main">
{{- if .Heading}}
<h1>{{.Heading}}</h1>
{{- end}}
{{- if .Listing}}
{{- if .Posts}}
<ul class="post-list">
{{- range .Posts}}
<li><a href="{{postURL .Slug}}">{{.Title}}</a>{{with .CategoryName}} <span class="post-category">{{.}}</span>{{end}}</li>
{{- end}}
</ul>
{{- else}}
<p class="post-list-empty">No posts yet.</p>
{{- end}}
{{- end}}
{{- with .Body}}
<article class="site-content">{{.}}</article>
{{- end}}
</main>
</body>
</html>
`

type siteView struct {
	SiteName string
	Title    string
	Heading  string
	Listing  bool
	Posts    []*posts.Post
	Body     template.HTML
}

func (s *Server) parseLayout() *template.Template {
	links := s.links
	if links == nil {
		links = sitemap.DefaultLinks{}
	}
	return template.Must(template.New("layout").Funcs(template.FuncMap{
		"home":    links.Home,
		"blog":    links.Blog,
		"sitemap": links.Sitemap,
		"postURL": links.Post,
	}).Parse(layoutTemplate))
}

func (s *Server) registerSiteRoutes(r chi.Router) {
	r.Get("/", s.handleHome)
	r.Get("/blog", s.handleBlog)
	r.Get("/post/{slug}", s.handlePost)
	r.Get("/sitemap", s.handleSitemap)
	r.Get("/{slug}", s.handlePage)
	r.NotFound(s.handleNotFound)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if s.posts == nil {
		s.renderStatus(w, r, http.StatusServiceUnavailable, "Unavailable")
		return
	}
	recent, err := s.posts.ListPublished(r.Context(), s.recentPosts)
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, siteView{Title: "Home", Heading: s.siteName, Listing: true, Posts: recent})
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	if s.posts == nil {
		s.renderStatus(w, r, http.StatusServiceUnavailable, "Unavailable")
		return
	}
	view := siteView{Title: "Blog", Heading: "Blog", Listing: true}
	opts := posts.ListOptions{Status: posts.StatusPublished}
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			s.renderStatus(w, r, http.StatusBadRequest, "Bad request")
			return
		}
		opts.CategoryID = &id
		if s.categories != nil {
			category, err := s.categories.Get(r.Context(), id)
			if err != nil {
				s.renderFailure(w, r, err)
				return
			}
			view.Title = category.Name
			view.Heading = "Blog: " + category.Name
		}
	}
	list, err := s.posts.List(r.Context(), opts)
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	view.Posts = list
	s.render(w, r, http.StatusOK, view)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	if s.posts == nil {
		s.renderStatus(w, r, http.StatusServiceUnavailable, "Unavailable")
		return
	}
	record, err := s.posts.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	body, err := s.renderContent(r.Context(), record.Body, true)
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, siteView{Title: record.Title, Heading: record.Title, Body: body})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if s.pages == nil {
		s.renderStatus(w, r, http.StatusServiceUnavailable, "Unavailable")
		return
	}
	record, err := s.pages.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	body, err := s.renderContent(r.Context(), record.Body, true)
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, siteView{Title: record.Title, Heading: record.Title, Body: body})
}

// handleSitemap renders the shortcode with its own header, so the page has
// no separate heading.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if s.shortcodes == nil {
		s.renderStatus(w, r, http.StatusServiceUnavailable, "Unavailable")
		return
	}
	body, err := s.renderContent(r.Context(), sitemapContent, false)
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, siteView{Title: "Sitemap", Body: body})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderStatus(w, r, http.StatusNotFound, "Page not found")
}

// renderContent renders Markdown when asked and then expands shortcodes.
// Without a renderer the source is escaped into a paragraph.
func (s *Server) renderContent(ctx context.Context, source string, markdown bool) (template.HTML, error) {
	content := source
	if markdown {
		if s.renderer != nil {
			html, err := s.renderer.Render(ctx, []byte(source))
			if err != nil {
				return "", err
			}
			content = string(html)
		} else {
			content = "<p>" + template.HTMLEscapeString(source) + "</p>"
		}
	}
	if s.shortcodes != nil {
		expanded, err := s.shortcodes.Process(ctx, content)
		if err != nil {
			return "", err
		}
		content = expanded
	}
	return template.HTML(content), nil
}

func (s *Server) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := mapError(err)
	if status >= http.StatusInternalServerError {
		logging.WithFields(s.logger.WithContext(r.Context()), map[string]any{
			"path":  r.URL.Path,
			"error": err.Error(),
		}).Error("http.site.render_failed")
	}
	switch status {
	case http.StatusNotFound:
		s.renderStatus(w, r, status, "Page not found")
	case http.StatusBadRequest:
		s.renderStatus(w, r, status, "Bad request")
	default:
		s.renderStatus(w, r, http.StatusInternalServerError, "Something went wrong")
	}
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, heading string) {
	s.render(w, r, status, siteView{Title: heading, Heading: heading})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, view siteView) {
	view.SiteName = s.siteName
	var buf bytes.Buffer
	if err := s.layout.Execute(&buf, view); err != nil {
		logging.WithFields(s.logger.WithContext(r.Context()), map[string]any{
			"path":  r.URL.Path,
			"error": err.Error(),
		}).Error("http.site.template_failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
