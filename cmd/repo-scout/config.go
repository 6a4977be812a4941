// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// pipelineConfig assembles the stage configuration from defaults, the viper
// config file / environment, and loaded secrets, in that order of
// precedence.
func pipelineConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	llm := types.LLMConfig{
		BaseURL: viper.GetString("llm.base_url"),
		Model:   viper.GetString("llm.model"),
		APIKey:  secretDefault("llm-api-key", viper.GetString("llm.api_key")),
	}
	if llm.BaseURL == "" {
		llm.BaseURL = secretDefault("llm-base-url", "")
	}
	cfg.Translate.LLMConfig = llm
	cfg.Evaluate.LLMConfig = llm

	cfg.Scout.Token = secretDefault("github-token", viper.GetString("scout.token"))

	if v := viper.GetInt("evaluate.concurrency"); v > 0 {
		cfg.Evaluate.Concurrency = v
	}
	if v := viper.GetInt("cache.capacity"); v > 0 {
		cfg.Cache.Capacity = v
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}
	if v := viper.GetInt("scout.per_page"); v > 0 {
		cfg.Scout.PerPage = v
	}
	if v := viper.GetInt("coarse.max_working_set"); v > 0 {
		cfg.Coarse.MaxWorkingSet = v
	}

	return cfg
}
