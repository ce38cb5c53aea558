package shortcode

import "testing"

func TestParseOptions(t *testing.T) {
	cases := []struct {
		raw  string
		want Options
	}{
		{raw: "", want: Options{ShowTitle: true}},
		{raw: "title=false", want: Options{ShowTitle: false}},
		{raw: "title=true", want: Options{ShowTitle: true}},
		{raw: "title=no", want: Options{ShowTitle: true}},
		{raw: "title=false class=my-class", want: Options{ShowTitle: false, ClassName: "my-class"}},
		{raw: "foo=bar", want: Options{ShowTitle: true}},
		{raw: "class= title=false", want: Options{ShowTitle: false}},
		{raw: "=x title", want: Options{ShowTitle: true}},
		{raw: "class=a class=b", want: Options{ShowTitle: true, ClassName: "b"}},
		{raw: "x-y=1 class=ok", want: Options{ShowTitle: true, ClassName: "ok"}},
		{raw: "class=<b>", want: Options{ShowTitle: true, ClassName: "<b>"}},
		{raw: "data-title=false", want: Options{ShowTitle: false}},
		{raw: "class=a=b", want: Options{ShowTitle: true, ClassName: "a=b"}},
		{raw: "title=false\u00a0class=wide", want: Options{ShowTitle: false, ClassName: "wide"}},
		{raw: "class=x\u3000title=false", want: Options{ShowTitle: false, ClassName: "x"}},
	}
	for _, tc := range cases {
		if got := ParseOptions(tc.raw); got != tc.want {
			t.Fatalf("ParseOptions(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseOptionsBareShortcodeUsesDefaults(t *testing.T) {
	matches := Collect("[sitemap]")
	if len(matches) != 1 {
		t.Fatalf("expected a match")
	}
	if got := ParseOptions(matches[0].AttributesRaw); got != (Options{ShowTitle: true}) {
		t.Fatalf("unexpected defaults %+v", got)
	}
}

func TestAttributesTokenShapes(t *testing.T) {
	got := Attributes("  data-title=false ==x a=b=c  y= k=v")
	want := []Attribute{
		{Key: "title", Value: "false"},
		{Key: "a", Value: "b=c"},
		{Key: "k", Value: "v"},
	}
	if len(got) != len(want) {
		t.Fatalf("Attributes returned %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
