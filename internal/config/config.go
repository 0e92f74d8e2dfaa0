package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int                 `json:"port"`
	LogConfig     logger.LogConfig    `json:"log_config"`
	ArtifactStore ArtifactStoreConfig `json:"artifact_store"`
	Retrieval     RetrievalConfig     `json:"retrieval"`
	AI            AIConfig            `json:"ai"`
	Answer        AnswerConfig        `json:"answer"`
	RateLimitMS   int                 `json:"rate_limit_ms"`
	CORSAllowlist []string            `json:"cors_allowlist"`
}

type ArtifactStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type RetrievalConfig struct {
	Backend    string      `json:"backend"`
	KInitial   int         `json:"k_initial"`
	KExpand    int         `json:"k_expand"`
	ReloadCron string      `json:"reload_cron"`
	Data       interface{} `json:"data"`
}

type AIConfig struct {
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	EmbedModel     string      `json:"embed_model"`
	Timeout        int         `json:"timeout"`
	EmbedCacheSize int         `json:"embed_cache_size"`
	Data           interface{} `json:"data"`
}

type AnswerConfig struct {
	MaxLine     int `json:"max_line"`
	ContextLine int `json:"context_line"`
	CaptionLine int `json:"caption_line"`
	MaxRefs     int `json:"max_refs"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.ArtifactStore.Type == "" {
		cfg.ArtifactStore.Type = "local"
	}
	if cfg.Retrieval.Backend == "" {
		cfg.Retrieval.Backend = "memory"
	}
	if cfg.Retrieval.KInitial <= 0 {
		cfg.Retrieval.KInitial = 6
	}
	if cfg.Retrieval.KExpand <= 0 {
		cfg.Retrieval.KExpand = 10
	}
	if cfg.Retrieval.KExpand < cfg.Retrieval.KInitial {
		return nil, fmt.Errorf("retrieval.k_expand must be >= retrieval.k_initial")
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		return nil, fmt.Errorf("ai.model is required")
	}
	if cfg.AI.EmbedModel == "" {
		return nil, fmt.Errorf("ai.embed_model is required")
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 30
	}
	if cfg.AI.EmbedCacheSize <= 0 {
		cfg.AI.EmbedCacheSize = 4096
	}
	if cfg.Answer.MaxLine <= 0 {
		cfg.Answer.MaxLine = 120
	}
	if cfg.Answer.ContextLine <= 0 {
		cfg.Answer.ContextLine = 90
	}
	if cfg.Answer.CaptionLine <= 0 {
		cfg.Answer.CaptionLine = 120
	}
	if cfg.Answer.MaxRefs <= 0 {
		cfg.Answer.MaxRefs = 8
	}
	return &cfg, nil
}
