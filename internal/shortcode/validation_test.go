package shortcode

import (
	"strings"
	"testing"
)

func TestValidateAttributes(t *testing.T) {
	if problems := ValidateAttributes("title=false class=my_class-2"); len(problems) != 0 {
		t.Fatalf("expected valid attributes, got %v", problems)
	}
	if problems := ValidateAttributes("foo=bar"); len(problems) != 0 {
		t.Fatalf("expected unknown keys to be ignored, got %v", problems)
	}

	problems := ValidateAttributes("title=yes class=<b>")
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", problems)
	}
	if !strings.HasPrefix(problems[0], "title: ") || !strings.HasPrefix(problems[1], "class: ") {
		t.Fatalf("unexpected messages %v", problems)
	}
}

func TestValidateContent(t *testing.T) {
	problems := ValidateContent("ok [sitemap] bad [sitemap title=maybe]")
	if len(problems) != 1 {
		t.Fatalf("expected one invalid shortcode, got %v", problems)
	}
	if _, ok := problems["[sitemap title=maybe]"]; !ok {
		t.Fatalf("expected problems keyed by shortcode text, got %v", problems)
	}
}
