// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceOrigin identifies which search collaborator produced a document.
// The pipeline uses it only for prompt labeling.
type SourceOrigin string

const (
	OriginLiteratureDB   SourceOrigin = "literature-db"
	OriginWebScrape      SourceOrigin = "web-scrape"
	OriginAcademicScrape SourceOrigin = "academic-scrape"
)

// SourceDocument is one candidate source (abstract or snippet) gathered by a
// search collaborator. Documents are immutable once fetched and live only for
// the duration of a single pipeline run.
type SourceDocument struct {
	// ID is the collaborator-assigned identifier (e.g. a PMID or result slug).
	ID string `json:"id" yaml:"id"`

	// Origin tags the collaborator that produced the document.
	Origin SourceOrigin `json:"origin" yaml:"origin"`

	// Title is the document title.
	Title string `json:"title" yaml:"title"`

	// AbstractText is the abstract or snippet body.
	AbstractText string `json:"abstract_text" yaml:"abstract_text"`

	// URL is the canonical location of the document.
	URL string `json:"url" yaml:"url"`

	// DOI is the digital object identifier, when known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Venue is the journal or site the document appeared in, when known.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Year is the publication year, 0 if unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`
}
