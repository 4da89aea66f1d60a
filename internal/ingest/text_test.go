package ingest

import (
	"strings"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "paragraphs and headings",
			html: `<html><body><h2>Heading</h2><p>First   paragraph
				spans lines.</p><p>Second.</p></body></html>`,
			want: "Heading\nFirst paragraph spans lines.\nSecond.",
		},
		{
			name: "scripts and styles skipped",
			html: `<html><head><style>p{color:red}</style></head><body>
				<script>alert(1)</script><p>Visible</p><noscript>hidden</noscript></body></html>`,
			want: "Visible",
		},
		{
			name: "list items",
			html: `<ul><li>one</li><li>two <b>bold</b></li></ul>`,
			want: "one\ntwo bold",
		},
		{
			name: "article preferred over chrome",
			html: `<body><nav>Menu</nav><div>Sidebar</div><article><p>Story body.</p></article><footer>Copyright</footer></body>`,
			want: "Story body.",
		},
		{
			name: "main used without article",
			html: `<body><div>Promo</div><main><p>Main text.</p></main></body>`,
			want: "Main text.",
		},
		{
			name: "inline elements joined",
			html: `<p>A <a href="#">link</a> and <em>emphasis</em>.</p>`,
			want: "A link and emphasis .",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("ExtractText: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProductToken(t *testing.T) {
	tests := map[string]string{
		"Aegis/0.1 (+https://github.com/ppiankov/aegis)": "Aegis",
		"Aegis":         "Aegis",
		"curl/8.0":      "curl",
		"":              "",
	}
	for ua, want := range tests {
		if got := productToken(ua); got != want {
			t.Errorf("productToken(%q) = %q, want %q", ua, got, want)
		}
	}
}
