package markdown

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace", in: " \n\t \n", want: ""},
		{name: "link keeps text", in: "see [the docs](https://example.com/a) now", want: "see the docs now"},
		{name: "link with parenthesized url", in: "See [Mercury](https://en.wikipedia.org/wiki/Mercury_(planet)) for details.", want: "See Mercury for details."},
		{name: "link with title", in: `[docs](https://x.y/a_(b) "t")`, want: "docs"},
		{name: "image with parenthesized url", in: "a ![x](https://img.example/a_(b).png) b", want: "a  b"},
		{name: "image dropped", in: "before ![alt](https://img.example/x.png) after", want: "before  after"},
		{name: "fenced code dropped", in: "intro\n```go\nfmt.Println(1)\n```\noutro", want: "intro\n\noutro"},
		{name: "inline code unwrapped", in: "run `make test` please", want: "run make test please"},
		{name: "heading", in: "## Title\nbody", want: "Title\nbody"},
		{name: "list markers", in: "- one\n* two\n+ three\n1. four", want: "one\ntwo\nthree\nfour"},
		{name: "blockquote", in: "> quoted\n> > nested", want: "quoted\nnested"},
		{name: "rule", in: "above\n\n---\n\nbelow", want: "above\n\nbelow"},
		{name: "emphasis", in: "**bold** and *italic* and ~~gone~~ and __under__", want: "bold and italic and gone and under"},
		{name: "snake case survives", in: "call foo_bar_baz here", want: "call foo_bar_baz here"},
		{name: "arithmetic survives", in: "5 * 3 * 2", want: "5 * 3 * 2"},
		{name: "html tags", in: "<p>Hello <b>world</b></p>", want: "Hello world"},
		{name: "newline collapse", in: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "crlf", in: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "japanese text", in: "**東京**は[日本](https://ja.wikipedia.org)の首都です。", want: "東京は日本の首都です。"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("%s: Normalize(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"`*nested*` emphasis inside code",
		"> - quoted list item\n> > ## deep heading",
		"[**bold link**](http://x) and ![img](y)",
		"- - -\n* * *\n___",
		"**unterminated bold and *half italic",
		"<div>\n\n\n\n<span>tags</span>\n\n\n</div>",
		"1. first\n   2. second\n\n\n\n#",
		"___init___ and __x__y",
		"~~~\ncode\n~~~ tail ~~strike~~",
		"  trailing spaces   \n\n\n\n   ",
		"今日は**とても**暑い。\n\n\n\n> 引用",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}
