package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	UploadDir     string        `yaml:"upload_dir"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Workers       int           `yaml:"workers"`
	EngineConfig  EngineConfig  `yaml:"engine"`
	OllamaConfig  OllamaConfig  `yaml:"ollama"`
}

// EngineConfig configures the study engine: which model to use and which
// template version the prompt lookup resolves.
type EngineConfig struct {
	Model           string        `yaml:"model"`
	TemplateVersion string        `yaml:"template_version"`
	Timeout         time.Duration `yaml:"timeout"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("CONNECT_ADDR", ":8080"),
		JWTSecret:     getEnv("CONNECT_JWT_SECRET", "supersecretkey"),
		APITimeout:    15 * time.Second,
		DatabasePath:  getEnv("CONNECT_DATABASE_PATH", "iitconnect.db"),
		UploadDir:     getEnv("CONNECT_UPLOAD_DIR", "uploaded_notes"),
		TokenDuration: 24 * time.Hour,
		Workers:       2,
		EngineConfig: EngineConfig{
			Model:           getEnv("CONNECT_MODEL", "llama3.1"),
			TemplateVersion: "v1",
			Timeout:         60 * time.Second,
		},
		OllamaConfig: OllamaConfig{
			BaseURL:                 getEnv("CONNECT_OLLAMA_URL", "http://localhost:11434"),
			Timeout:                 60 * time.Second,
			Retries:                 2,
			Backoff:                 time.Second,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
