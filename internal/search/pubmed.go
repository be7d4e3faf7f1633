// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/evidence-engine/internal/httputil"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// NCBI E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	pubmedESearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedEFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// PubMedCollaborator queries the PubMed literature database through the NCBI
// E-utilities: esearch for PMIDs, then efetch for titles and abstracts.
type PubMedCollaborator struct {
	Client *http.Client
}

// Name returns the collaborator identifier.
func (c *PubMedCollaborator) Name() string { return "pubmed" }

// Origin tags documents from this collaborator.
func (c *PubMedCollaborator) Origin() types.SourceOrigin { return types.OriginLiteratureDB }

// Fetch searches PubMed for the condition query and returns documents with
// full abstracts.
func (c *PubMedCollaborator) Fetch(ctx context.Context, query types.ConditionQuery, cfg types.SearchConfig) ([]types.SourceDocument, error) {
	ids, err := c.search(ctx, query, cfg)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return c.fetchAbstracts(ctx, ids, cfg)
}

// search calls esearch and returns the matching PMIDs.
func (c *PubMedCollaborator) search(ctx context.Context, query types.ConditionQuery, cfg types.SearchConfig) ([]string, error) {
	maxDocs := cfg.MaxDocuments
	if maxDocs <= 0 {
		maxDocs = 10
	}

	term := query.BaseCondition
	if query.HasCause() {
		term += " " + query.Cause
	}

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmax":  {strconv.Itoa(maxDocs)},
		"retmode": {"json"},
		"sort":    {"relevance"},
	}
	if cfg.NCBIAPIKey != "" {
		params.Set("api_key", cfg.NCBIAPIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedESearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating esearch request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("esearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esearch returned HTTP %d", resp.StatusCode)
	}

	var sr esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return sr.ESearchResult.IDList, nil
}

// fetchAbstracts calls efetch for the given PMIDs and converts the XML
// article set into source documents.
func (c *PubMedCollaborator) fetchAbstracts(ctx context.Context, ids []string, cfg types.SearchConfig) ([]types.SourceDocument, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"rettype": {"abstract"},
		"retmode": {"xml"},
	}
	if cfg.NCBIAPIKey != "" {
		params.Set("api_key", cfg.NCBIAPIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedEFetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating efetch request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("efetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	var docs []types.SourceDocument
	for _, article := range set.Articles {
		pmid := article.Citation.PMID
		doc := types.SourceDocument{
			ID:           "pmid:" + pmid,
			Origin:       types.OriginLiteratureDB,
			Title:        strings.TrimSpace(article.Citation.Article.Title),
			AbstractText: joinAbstract(article.Citation.Article.Abstract.Sections),
			URL:          "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/",
			Venue:        strings.TrimSpace(article.Citation.Article.Journal.Title),
		}
		for _, loc := range article.Citation.Article.ELocationIDs {
			if loc.Type == "doi" {
				doc.DOI = strings.TrimSpace(loc.Value)
			}
		}
		if y, err := strconv.Atoi(article.Citation.Article.Journal.Issue.PubDate.Year); err == nil {
			doc.Year = y
		}
		if doc.Title == "" || doc.AbstractText == "" {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// joinAbstract flattens a structured abstract into one text, keeping section
// labels like "Methods:" since dosage and exercise details live there.
func joinAbstract(sections []abstractSection) string {
	var parts []string
	for _, s := range sections {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if s.Label != "" {
			text = s.Label + ": " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// E-utilities JSON and XML structures.

type esearchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Sections []abstractSection `xml:"AbstractText"`
			} `xml:"Abstract"`
			Journal struct {
				Title string `xml:"Title"`
				Issue struct {
					PubDate struct {
						Year string `xml:"Year"`
					} `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
			ELocationIDs []eLocationID `xml:"ELocationID"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

type abstractSection struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type eLocationID struct {
	Type  string `xml:"EIdType,attr"`
	Value string `xml:",chardata"`
}
