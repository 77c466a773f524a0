package extract

import (
	"strings"
	"testing"
)

// WHAT: Tests article extraction from HTML pages.
// WHY: Evidence scoring runs on extracted text, so boilerplate and
// hidden content must not leak into it.

func TestTextExtractsTitleAndParagraphs(t *testing.T) {
	page := `<html><head><title>Vaccine Safety Report</title></head><body>
		<nav>Home | About | Contact</nav>
		<h1>Vaccines are safe</h1>
		<p>Multiple studies confirm vaccine safety.</p>
		<p>The WHO endorses routine immunization.</p>
		<footer>Copyright 2026</footer>
	</body></html>`

	title, text := Text([]byte(page))
	if title != "Vaccine Safety Report" {
		t.Errorf("title = %q, want %q", title, "Vaccine Safety Report")
	}
	if !strings.Contains(text, "Multiple studies confirm vaccine safety.") {
		t.Errorf("text missing paragraph content: %q", text)
	}
	if !strings.Contains(text, "Vaccines are safe") {
		t.Errorf("text missing heading content: %q", text)
	}
	if strings.Contains(text, "Home | About") {
		t.Errorf("nav content leaked into text: %q", text)
	}
	if strings.Contains(text, "Copyright") {
		t.Errorf("footer content leaked into text: %q", text)
	}
}

func TestTextSkipsScriptAndHidden(t *testing.T) {
	page := `<html><body>
		<p>Visible statement.</p>
		<script>var tracker = "analytics";</script>
		<p style="display:none">Hidden spam keywords.</p>
	</body></html>`

	_, text := Text([]byte(page))
	if strings.Contains(text, "analytics") {
		t.Errorf("script content leaked: %q", text)
	}
	if strings.Contains(text, "Hidden spam") {
		t.Errorf("hidden content leaked: %q", text)
	}
	if !strings.Contains(text, "Visible statement.") {
		t.Errorf("visible content missing: %q", text)
	}
}

func TestTextFallbackWhenNoBlocks(t *testing.T) {
	page := `<html><body><div>Bare div text without paragraphs.</div></body></html>`
	_, text := Text([]byte(page))
	if !strings.Contains(text, "Bare div text") {
		t.Errorf("fallback text missing: %q", text)
	}
}

func TestTextDevanagariContent(t *testing.T) {
	page := `<html><body><p>खोप सुरक्षित छ भन्ने अध्ययनले पुष्टि गरेको छ।</p></body></html>`
	_, text := Text([]byte(page))
	if !strings.Contains(text, "खोप सुरक्षित") {
		t.Errorf("Devanagari content missing: %q", text)
	}
}

func TestMarkdownConvertsAndFallsBack(t *testing.T) {
	md := Markdown(`<h1>Heading</h1><p>Body with <a href="/rel">link</a>.</p>`,
		"https://example.com/article", "plain fallback")
	if !strings.Contains(md, "Heading") || !strings.Contains(md, "Body with") {
		t.Errorf("markdown conversion lost content: %q", md)
	}

	if got := Markdown("", "https://example.com", "plain fallback"); got != "plain fallback" {
		t.Errorf("empty html: got %q, want fallback", got)
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"strips markup", "claim is <b>false</b>", 0, "claim is false"},
		{"collapses whitespace", "a  b\n\nc", 0, "a b c"},
		{"short untouched", "short text", 100, "short text"},
		{"truncates with ellipsis", "abcdefghij", 5, "abcde..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snippet(tt.in, tt.n); got != tt.want {
				t.Errorf("Snippet(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestSnippetRuneBoundary(t *testing.T) {
	in := "खोप सुरक्षित छ"
	got := Snippet(in, 6)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation marker, got %q", got)
	}
	for _, r := range got {
		if r == '�' {
			t.Fatalf("truncation broke a rune: %q", got)
		}
	}
}
