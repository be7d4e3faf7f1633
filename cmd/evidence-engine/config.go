// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/evidence-engine/internal/secrets"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// setConfigDefaults registers every viper default. Config file values and
// EVIDENCE_ENGINE_* environment variables override these.
func setConfigDefaults() {
	viper.SetDefault("http.timeout", 30*time.Second)
	viper.SetDefault("http.user_agent", "evidence-engine/"+version)

	viper.SetDefault("search.max_documents", 10)
	viper.SetDefault("search.enable_literature_db", true)
	viper.SetDefault("search.enable_academic_scrape", true)
	viper.SetDefault("search.enable_web_scrape", true)
	viper.SetDefault("search.scrape_interval", time.Second)

	viper.SetDefault("gateway.family", string(types.FamilyOpenAI))
	viper.SetDefault("gateway.model", "")
	viper.SetDefault("gateway.max_tokens", 4096)
	viper.SetDefault("gateway.temperature", 0.2)

	viper.SetDefault("analysis.abstract_budget", 600)
	viper.SetDefault("analysis.simplify_similarity_ceiling", 0.9)

	viper.SetDefault("cache.dir", ".cache")
	viper.SetDefault("cache.ttl", 24*time.Hour)
}

func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
}

func searchConfig() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig:           httpConfig(),
		MaxDocuments:         viper.GetInt("search.max_documents"),
		EnableLiteratureDB:   viper.GetBool("search.enable_literature_db"),
		EnableAcademicScrape: viper.GetBool("search.enable_academic_scrape"),
		EnableWebScrape:      viper.GetBool("search.enable_web_scrape"),
		NCBIAPIKey:           loadedSecrets["ncbi-api-key"],
		ScrapeInterval:       viper.GetDuration("search.scrape_interval"),
	}
}

func gatewayConfig() types.GatewayConfig {
	return types.GatewayConfig{
		Family:      types.BackendFamily(viper.GetString("gateway.family")),
		Model:       viper.GetString("gateway.model"),
		APIKeys:     secrets.APIKeys(loadedSecrets),
		MaxTokens:   viper.GetInt("gateway.max_tokens"),
		Temperature: float32(viper.GetFloat64("gateway.temperature")),
	}
}

func analysisConfig() types.AnalysisConfig {
	return types.AnalysisConfig{
		AbstractBudget:            viper.GetInt("analysis.abstract_budget"),
		SimplifySimilarityCeiling: viper.GetFloat64("analysis.simplify_similarity_ceiling"),
	}
}

func cacheConfig() types.CacheConfig {
	return types.CacheConfig{
		Dir: viper.GetString("cache.dir"),
		TTL: viper.GetDuration("cache.ttl"),
	}
}
