package markdown

import (
	"context"
	"strings"
	"testing"
)

func TestRendererConvertsAndSanitizes(t *testing.T) {
	r := NewRenderer(DefaultRendererOptions())

	out, err := r.Render(context.Background(), []byte("# Year End\n\nClose the books.\n\n<script>alert(1)</script>\n\n<a href=\"javascript:alert(1)\">x</a>\n"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `<h1 id="year-end">Year End</h1>`) {
		t.Fatalf("expected heading with id, got %s", html)
	}
	if strings.Contains(html, "<script") || strings.Contains(html, "javascript:") {
		t.Fatalf("expected unsafe markup to be removed, got %s", html)
	}
}

func TestRendererLeavesShortcodesIntact(t *testing.T) {
	r := NewRenderer(DefaultRendererOptions())

	out, err := r.Render(context.Background(), []byte("Intro text.\n\n[sitemap title=false class=wide]\n"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "[sitemap title=false class=wide]") {
		t.Fatalf("expected shortcode text to survive rendering, got %s", out)
	}
}

func TestRendererEmoji(t *testing.T) {
	r := NewRenderer(DefaultRendererOptions())

	out, err := r.Render(context.Background(), []byte("Filed on time :tada:\n"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), ":tada:") {
		t.Fatalf("expected emoji shortcode to be replaced, got %s", out)
	}

	plain := NewRenderer(RendererOptions{})
	out, err = plain.Render(context.Background(), []byte("Filed on time :tada:\n"))
	if err != nil {
		t.Fatalf("render plain: %v", err)
	}
	if !strings.Contains(string(out), ":tada:") {
		t.Fatalf("expected emoji to stay literal without the extension, got %s", out)
	}
}

func TestRendererWithoutSanitizeOmitsRawHTML(t *testing.T) {
	r := NewRenderer(RendererOptions{})

	out, err := r.Render(context.Background(), []byte("<div>raw</div>\n"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<div>") {
		t.Fatalf("expected raw html to be omitted, got %s", out)
	}
}

func TestRendererHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRenderer(DefaultRendererOptions()).Render(ctx, []byte("x")); err == nil {
		t.Fatal("expected context error")
	}
}
