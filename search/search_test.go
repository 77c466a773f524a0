package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// WHAT: Tests the search clients and the combined gather pass.
// WHY: Evidence quality depends on both the original and fact-check
// query passes running with the right parameters.

func TestGoogleSearchParams(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		fmt.Fprint(w, `{"items":[
			{"title":"Vaccine facts","link":"https://who.int/a","snippet":"Vaccines are safe."},
			{"title":"No link item","link":"","snippet":"dropped"}
		]}`)
	}))
	defer ts.Close()

	g := NewGoogle(Config{GoogleAPIKey: "k", GoogleCX: "cx"}, nil, WithGoogleEndpoint(ts.URL))
	results, err := g.Search(context.Background(), "खोप सुरक्षित छ", 25, "ne")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotQuery["key"] != "k" || gotQuery["cx"] != "cx" {
		t.Errorf("credentials not sent: %v", gotQuery)
	}
	if gotQuery["num"] != "10" {
		t.Errorf("num = %q, want clamped to 10", gotQuery["num"])
	}
	if gotQuery["safe"] != "active" || gotQuery["dateRestrict"] != "y2" {
		t.Errorf("safety/date params wrong: %v", gotQuery)
	}
	if gotQuery["lr"] != "lang_ne" || gotQuery["hl"] != "ne" {
		t.Errorf("language params wrong: %v", gotQuery)
	}

	if len(results) != 1 {
		t.Fatalf("results = %d, want 1 (empty link dropped)", len(results))
	}
	if results[0].URL != "https://who.int/a" || results[0].Kind != KindOriginal {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestGoogleUnconfigured(t *testing.T) {
	g := NewGoogle(Config{}, nil)
	if _, err := g.Search(context.Background(), "q", 5, "en"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestGoogleHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	g := NewGoogle(Config{GoogleAPIKey: "k", GoogleCX: "cx"}, nil, WithGoogleEndpoint(ts.URL))
	if _, err := g.Search(context.Background(), "q", 5, "en"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestDuckDuckGoParsesResults(t *testing.T) {
	page := `<html><body>
		<div class="result">
			<a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fbbc.com%2Fnews%2F1">BBC coverage</a>
			<a class="result__snippet" href="#">Officials confirmed the report.</a>
		</div>
		<div class="result">
			<a class="result__a" href="https://reuters.com/article/2">Reuters piece</a>
			<div class="result__snippet">Fact checkers rated the claim false.</div>
		</div>
	</body></html>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	d := NewDuckDuckGo(Config{}, nil, WithDuckDuckGoEndpoint(ts.URL))
	results, err := d.Search(context.Background(), "claim", 10, "en")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].URL != "https://bbc.com/news/1" {
		t.Errorf("uddg redirect not unwrapped: %q", results[0].URL)
	}
	if results[0].Title != "BBC coverage" || !strings.Contains(results[0].Snippet, "Officials confirmed") {
		t.Errorf("first result mangled: %+v", results[0])
	}
	if results[1].URL != "https://reuters.com/article/2" {
		t.Errorf("direct href lost: %q", results[1].URL)
	}
}

func TestDuckDuckGoTruncatesToN(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&sb, `<a class="result__a" href="https://example.com/%d">r%d</a>`, i, i)
	}
	sb.WriteString("</body></html>")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sb.String())
	}))
	defer ts.Close()

	d := NewDuckDuckGo(Config{}, nil, WithDuckDuckGoEndpoint(ts.URL))
	results, err := d.Search(context.Background(), "claim", 3, "en")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("results = %d, want 3", len(results))
	}
}

func TestFactCheckQueries(t *testing.T) {
	en := FactCheckQueries("moon landing faked", "en")
	if len(en) != 5 {
		t.Fatalf("en variants = %d, want 5", len(en))
	}
	if en[0] != "fact check moon landing faked" {
		t.Errorf("en[0] = %q", en[0])
	}

	ne := FactCheckQueries("खोप सुरक्षित छ", "ne")
	if len(ne) != 4 {
		t.Fatalf("ne variants = %d, want 4", len(ne))
	}
	if !strings.Contains(ne[0], "तथ्य परीक्षण") {
		t.Errorf("ne[0] = %q", ne[0])
	}

	// Unknown language falls back to English templates.
	if got := FactCheckQueries("claim", "fr"); len(got) != 5 {
		t.Errorf("fallback variants = %d, want 5", len(got))
	}
}

// stubSearcher returns canned results per query and can fail selectively.
type stubSearcher struct {
	results map[string][]Result
	errOn   map[string]bool
	calls   []string
}

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(ctx context.Context, q string, n int, lang string) ([]Result, error) {
	s.calls = append(s.calls, q)
	if s.errOn[q] {
		return nil, errors.New("stub failure")
	}
	return s.results[q], nil
}

func TestGatherMergesPasses(t *testing.T) {
	stub := &stubSearcher{
		results: map[string][]Result{
			"claim":            {{Title: "a", URL: "https://a.com", Kind: KindOriginal}},
			"fact check claim": {{Title: "fc", URL: "https://fc.com", Kind: KindOriginal}},
		},
		errOn: map[string]bool{"claim debunked": true},
	}

	results, err := Gather(context.Background(), stub, "claim", Config{}, "en")
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	// 1 original pass + 5 fact-check variants.
	if len(stub.calls) != 6 {
		t.Errorf("calls = %d, want 6", len(stub.calls))
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (failed variant skipped)", len(results))
	}
	if results[0].Kind != KindOriginal {
		t.Errorf("original pass kind = %q", results[0].Kind)
	}
	if results[1].Kind != KindFactCheck {
		t.Errorf("fact-check hit not retagged: %q", results[1].Kind)
	}
}

func TestGatherOriginalPassFailure(t *testing.T) {
	stub := &stubSearcher{errOn: map[string]bool{"claim": true}}
	if _, err := Gather(context.Background(), stub, "claim", Config{}, "en"); err == nil {
		t.Fatal("expected error when the original pass fails")
	}
}
