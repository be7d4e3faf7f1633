// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/evidence-engine/internal/httputil"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// webSearchBase is the HTML (non-JS) DuckDuckGo endpoint. Declared as a var
// so tests can substitute an httptest server.
var webSearchBase = "https://html.duckduckgo.com/html/"

// trustedHealthDomains limits web results to recognizable health publishers;
// everything else is noise the extraction prompt should never see.
var trustedHealthDomains = []string{
	"nih.gov",
	"cdc.gov",
	"who.int",
	"nhs.uk",
	"mayoclinic.org",
	"clevelandclinic.org",
	"health.harvard.edu",
	"medlineplus.gov",
}

// WebScrapeCollaborator scrapes general web search results restricted to
// trusted health domains. Requests are paced to stay polite.
type WebScrapeCollaborator struct {
	Client *http.Client
	Pacer  *Pacer
}

// Name returns the collaborator identifier.
func (c *WebScrapeCollaborator) Name() string { return "webscrape" }

// Origin tags documents from this collaborator.
func (c *WebScrapeCollaborator) Origin() types.SourceOrigin { return types.OriginWebScrape }

// Fetch scrapes one search result page for the condition query.
func (c *WebScrapeCollaborator) Fetch(ctx context.Context, query types.ConditionQuery, cfg types.SearchConfig) ([]types.SourceDocument, error) {
	if c.Pacer != nil {
		if err := c.Pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	term := query.BaseCondition
	if query.HasCause() {
		term += " " + query.Cause
	}

	form := url.Values{"q": {term + " diet exercise recommendations"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webSearchBase, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating web search request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("web search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned HTTP %d", resp.StatusCode)
	}

	page, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing web search page: %w", err)
	}

	maxDocs := cfg.MaxDocuments
	if maxDocs <= 0 {
		maxDocs = 10
	}

	var docs []types.SourceDocument
	page.Find(".result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(docs) >= maxDocs {
			return false
		}

		link := sel.Find(".result__a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		snippet := strings.TrimSpace(sel.Find(".result__snippet").Text())

		if title == "" || snippet == "" || !trustedDomain(href) {
			return true
		}

		docs = append(docs, types.SourceDocument{
			ID:           fmt.Sprintf("web:%d", i),
			Origin:       types.OriginWebScrape,
			Title:        title,
			AbstractText: snippet,
			URL:          href,
		})
		return true
	})

	return docs, nil
}

// trustedDomain reports whether the URL's host is, or is a subdomain of, one
// of the trusted health publishers.
func trustedDomain(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, d := range trustedHealthDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
