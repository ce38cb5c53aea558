package sitemap

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseFragment(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return doc
}

func sampleDataset() Dataset {
	return Dataset{
		Categories: []Category{
			{ID: "1", Name: "Tax"},
			{ID: "2", Name: "Audit"},
			{ID: "3", Name: "Payroll"},
		},
		Posts: []Post{
			{ID: "5", Title: "Post A", Slug: "post-a", CategoryName: "Tax"},
			{ID: "6", Title: "Post B", Slug: "post-b", CategoryName: "Tax"},
			{ID: "7", Title: "Post C", Slug: "post-c", CategoryName: "Audit"},
			{ID: "8", Title: "Loose", Slug: "loose"},
		},
		Pages: []Page{{ID: "9", Title: "About", Slug: "about"}},
	}
}

func TestGeneratorRendersColumnsAndAccordion(t *testing.T) {
	markup := NewGenerator().Render(sampleDataset(), DefaultOptions())
	doc := parseFragment(t, markup)

	if doc.Find("div.sitemap-shortcode").Length() != 1 {
		t.Fatalf("expected one root element in %s", markup)
	}
	if got := doc.Find(".sitemap-title").Text(); got != "Sitemap" {
		t.Fatalf("expected title block, got %q", got)
	}

	mainLinks := doc.Find(".sitemap-main-pages a")
	var hrefs []string
	mainLinks.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	if strings.Join(hrefs, ",") != "/,/blog,/sitemap,/about" {
		t.Fatalf("unexpected main page links %v", hrefs)
	}

	if got := doc.Find(`.sitemap-categories a[href="/blog?category=1"]`).Text(); got != "Tax" {
		t.Fatalf("expected Tax category link, got %q", got)
	}

	entries := doc.Find(".sitemap-accordion-item")
	if entries.Length() != 2 {
		t.Fatalf("expected 2 accordion entries, got %d", entries.Length())
	}
	headers := []string{
		entries.Eq(0).Find("summary").Text(),
		entries.Eq(1).Find("summary").Text(),
	}
	if headers[0] != "Tax (2)" || headers[1] != "Audit (1)" {
		t.Fatalf("unexpected accordion headers %v", headers)
	}
	if entries.Eq(0).Find("a").Length() != 2 {
		t.Fatalf("expected both Tax posts listed")
	}
	if doc.Find(".sitemap-menus").Length() != 0 {
		t.Fatalf("expected no menus section without menus")
	}
}

func TestGeneratorHonoursOptions(t *testing.T) {
	markup := NewGenerator().Render(sampleDataset(), Options{ShowTitle: false, ClassName: "my-class"})
	doc := parseFragment(t, markup)

	root := doc.Find("div.sitemap-shortcode")
	if !root.HasClass("my-class") {
		class, _ := root.Attr("class")
		t.Fatalf("expected my-class on root, got %q", class)
	}
	if doc.Find(".sitemap-header").Length() != 0 {
		t.Fatalf("expected title block to be omitted")
	}
}

func TestGeneratorEmptyDatasetRendersPlaceholders(t *testing.T) {
	markup := NewGenerator().Render(Dataset{}, DefaultOptions())
	doc := parseFragment(t, markup)

	for _, selector := range []string{".sitemap-main-pages", ".sitemap-categories", ".sitemap-recent-posts", ".sitemap-accordion"} {
		if got := doc.Find(selector + " .sitemap-empty").Text(); got != EmptyPlaceholder {
			t.Fatalf("expected placeholder in %s, got %q", selector, got)
		}
	}
	if doc.Find(".sitemap-main-pages a").Length() != 3 {
		t.Fatalf("expected static links to remain")
	}
}

func TestGeneratorLimitsRecentPosts(t *testing.T) {
	var data Dataset
	for i := 0; i < 15; i++ {
		slug := "post-" + string(rune('a'+i))
		data.Posts = append(data.Posts, Post{ID: slug, Title: slug, Slug: slug})
	}
	doc := parseFragment(t, NewGenerator().Render(data, DefaultOptions()))
	links := doc.Find(".sitemap-recent-posts a")
	if links.Length() != DefaultRecentPosts {
		t.Fatalf("expected %d recent posts, got %d", DefaultRecentPosts, links.Length())
	}
	if href, _ := links.First().Attr("href"); href != "/post/post-a" {
		t.Fatalf("expected load order preserved, got %q", href)
	}

	doc = parseFragment(t, NewGenerator(WithRecentPosts(3)).Render(data, DefaultOptions()))
	if got := doc.Find(".sitemap-recent-posts a").Length(); got != 3 {
		t.Fatalf("expected 3 recent posts, got %d", got)
	}
}

func TestGeneratorEscapesDatasetText(t *testing.T) {
	data := Dataset{
		Categories: []Category{{ID: `1" onclick="x`, Name: "<script>alert(1)</script>"}},
		Posts:      []Post{{ID: "1", Title: "Tom & Jerry", Slug: "tom", CategoryName: "<script>alert(1)</script>"}},
		Menus: []Menu{{ID: "m", Name: "Main", Items: []MenuItem{
			{ID: "i1", Title: "Evil", URL: "javascript:alert(1)"},
			{ID: "i2", Title: "Mail", URL: "mailto:team@example.com"},
			{ID: "i3", Title: "None"},
		}}},
	}
	markup := NewGenerator().Render(data, Options{ShowTitle: true, ClassName: `x" onload="y`})

	if strings.Contains(markup, "<script>") {
		t.Fatalf("expected script tag to be escaped: %s", markup)
	}
	if strings.Contains(markup, `onclick="x"`) || strings.Contains(markup, `onload="y"`) {
		t.Fatalf("expected attribute values to be escaped: %s", markup)
	}
	if !strings.Contains(markup, "Tom &amp; Jerry") {
		t.Fatalf("expected ampersand to be escaped: %s", markup)
	}

	doc := parseFragment(t, markup)
	var hrefs []string
	doc.Find(".sitemap-menu a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	if strings.Join(hrefs, ",") != "#,mailto:team@example.com,#" {
		t.Fatalf("unexpected menu hrefs %v", hrefs)
	}
}

func TestGeneratorIsDeterministic(t *testing.T) {
	gen := NewGenerator()
	data := sampleDataset()
	first := gen.Render(data, DefaultOptions())
	for i := 0; i < 5; i++ {
		if got := gen.Render(data, DefaultOptions()); got != first {
			t.Fatalf("render %d differs from the first render", i)
		}
	}
}
