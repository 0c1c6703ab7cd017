package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TeamsPath string `yaml:"teams_path"`
	DBPath    string `yaml:"db_path"`

	SignalsCSVPath  string `yaml:"signals_csv_path"`
	ReportOutputDir string `yaml:"report_output_dir"`
	DefaultTeam     string `yaml:"default_team"`

	ReviewConfidence float64 `yaml:"review_confidence_threshold"`
	BatchWorkers     int     `yaml:"batch_workers"`

	DigestSchedule string `yaml:"digest_schedule"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	SemanticLLM     bool   `yaml:"semantic_llm"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`

	Timezone string `yaml:"timezone"`
	Location *time.Location
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.TeamsPath, "TEAMS_PATH")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.SignalsCSVPath, "SIGNALS_CSV_PATH")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.DefaultTeam, "DEFAULT_TEAM")
	envOverrideFloat(&cfg.ReviewConfidence, "REVIEW_CONFIDENCE_THRESHOLD")
	envOverrideInt(&cfg.BatchWorkers, "BATCH_WORKERS")
	envOverride(&cfg.DigestSchedule, "DIGEST_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverrideBool(&cfg.SemanticLLM, "SEMANTIC_LLM")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.Timezone, "TIMEZONE")

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "./signalsort.db"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.ReviewConfidence == 0 {
		cfg.ReviewConfidence = 0.70
	}
	if cfg.BatchWorkers == 0 {
		cfg.BatchWorkers = 4
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// Validate required fields
	if cfg.TeamsPath == "" {
		log.Fatalf("Required config 'teams_path' is not set (via config.yaml or env var)")
	}
	if cfg.ReviewConfidence < 0 || cfg.ReviewConfidence > 1 {
		log.Fatalf("invalid review_confidence_threshold '%f': must be between 0 and 1", cfg.ReviewConfidence)
	}
	if cfg.BatchWorkers < 1 {
		log.Fatalf("invalid batch_workers '%d': must be >= 1", cfg.BatchWorkers)
	}
	if cfg.SemanticLLM && cfg.AnthropicAPIKey == "" {
		log.Fatalf("anthropic_api_key is required when semantic_llm is enabled")
	}
	if cfg.SlackBotToken != "" && cfg.ReportChannelID == "" {
		log.Fatalf("slack_bot_token is set but report_channel_id is not configured")
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = strings.EqualFold(val, "true") || val == "1"
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
