package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Targets string `yaml:"targets"` // file listing required class files
		Workers int    `yaml:"workers"`
	} `yaml:"project"`
	Grading struct {
		Output string `yaml:"output"` // report output directory
		DB     string `yaml:"db"`
	} `yaml:"grading"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"` // LLM model for feedback comments
		APIKey   string `yaml:"api_key"`
	} `yaml:"ai"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Project.Targets = "files.txt"
	cfg.Project.Workers = 4
	cfg.Grading.Output = "results"
	cfg.Grading.DB = "structgrade.db"
	cfg.AI.Provider = "gemini"
	cfg.AI.Model = "gemini-1.5-flash"
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := DefaultConfig()

	// 2. Load YAML config; a missing file keeps the defaults
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("STRUCTGRADE_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("STRUCTGRADE_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}

	return cfg, nil
}
