package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

const webSearchHTML = `<html><body>
<div class="result">
  <a class="result__a" href="https://www.cdc.gov/diabetes/managing">Managing Blood Sugar</a>
  <div class="result__snippet">Regular physical activity lowers blood glucose.</div>
</div>
<div class="result">
  <a class="result__a" href="https://random-blog.example.com/diabetes-cure">Miracle Cure</a>
  <div class="result__snippet">One weird trick doctors hate.</div>
</div>
<div class="result">
  <a class="result__a" href="https://www.niddk.nih.gov/health-information/diabetes">Diabetes Overview</a>
  <div class="result__snippet">Healthy eating and being active help manage diabetes.</div>
</div>
</body></html>`

func TestWebScrapeFetchFiltersUntrustedDomains(t *testing.T) {
	var gotMethod, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		r.ParseForm()
		gotQuery = r.PostForm.Get("q")
		w.Write([]byte(webSearchHTML))
	}))
	defer server.Close()

	orig := webSearchBase
	webSearchBase = server.URL
	defer func() { webSearchBase = orig }()

	c := &WebScrapeCollaborator{Client: server.Client()}
	docs, err := c.Fetch(context.Background(), types.ParseConditionQuery("diabetes"), types.SearchConfig{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2 (untrusted domain dropped): %+v", len(docs), docs)
	}
	if docs[0].URL != "https://www.cdc.gov/diabetes/managing" {
		t.Errorf("docs[0].URL = %q", docs[0].URL)
	}
	if docs[0].Origin != types.OriginWebScrape {
		t.Errorf("docs[0].Origin = %q", docs[0].Origin)
	}
	if docs[1].URL != "https://www.niddk.nih.gov/health-information/diabetes" {
		t.Errorf("docs[1].URL = %q, want nih.gov subdomain kept", docs[1].URL)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotQuery != "diabetes diet exercise recommendations" {
		t.Errorf("search query = %q", gotQuery)
	}
}

func TestTrustedDomain(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.cdc.gov/diabetes", true},
		{"https://nih.gov/page", true},
		{"https://www.niddk.nih.gov/page", true},
		{"https://medlineplus.gov/diabetes.html", true},
		{"https://fakenih.gov.example.com/page", false},
		{"https://notnih.gov/page", false},
		{"https://random-blog.example.com/post", false},
		{"not a url", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := trustedDomain(tt.url); got != tt.want {
			t.Errorf("trustedDomain(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
