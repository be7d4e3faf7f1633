package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "evidence-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the source-collaborator fan-out.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxDocuments is the maximum number of documents requested from each
	// collaborator (default 10).
	MaxDocuments int `json:"max_documents" yaml:"max_documents"`

	// EnableLiteratureDB controls the PubMed collaborator.
	EnableLiteratureDB bool `json:"enable_literature_db" yaml:"enable_literature_db"`

	// EnableAcademicScrape controls the Google Scholar scraping collaborator.
	EnableAcademicScrape bool `json:"enable_academic_scrape" yaml:"enable_academic_scrape"`

	// EnableWebScrape controls the web search scraping collaborator.
	EnableWebScrape bool `json:"enable_web_scrape" yaml:"enable_web_scrape"`

	// NCBIAPIKey is an optional E-utilities key for higher rate limits.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty"`

	// ScrapeInterval is the minimum spacing between requests issued by a
	// scraping collaborator (default 1s).
	ScrapeInterval time.Duration `json:"scrape_interval" yaml:"scrape_interval"`
}

// BackendFamily identifies one interchangeable generative-model provider
// configuration.
type BackendFamily string

const (
	FamilyOpenAI     BackendFamily = "openai"
	FamilyGroq       BackendFamily = "groq"
	FamilyOpenRouter BackendFamily = "openrouter"
)

// GatewayConfig holds settings for the model gateway.
type GatewayConfig struct {
	// Family selects the primary backend family (default openai).
	Family BackendFamily `json:"family" yaml:"family"`

	// Model overrides the primary model identifier for the selected family.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// APIKeys maps backend family to credential. Populated from the secrets
	// directory; absence of the selected family's key is a configuration
	// error.
	APIKeys map[BackendFamily]string `json:"-" yaml:"-"`

	// MaxTokens bounds each completion (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature for extraction calls.
	Temperature float32 `json:"temperature" yaml:"temperature"`
}

// AnalysisConfig holds settings for the extraction pipeline.
type AnalysisConfig struct {
	// AbstractBudget caps the characters of each document embedded in the
	// extraction prompt (default 600).
	AbstractBudget int `json:"abstract_budget" yaml:"abstract_budget"`

	// SimplifySimilarityCeiling is the normalized edit-distance similarity
	// above which a paraphrase is treated as an echo of the original
	// (default 0.9).
	SimplifySimilarityCeiling float64 `json:"simplify_similarity_ceiling" yaml:"simplify_similarity_ceiling"`
}

// CacheConfig holds settings for the analysis result cache.
type CacheConfig struct {
	// Dir is the directory holding the cache database (default ".cache").
	Dir string `json:"dir" yaml:"dir"`

	// TTL is how long a cached result stays servable (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}
