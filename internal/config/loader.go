package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// searchPaths returns the ordered list of config file locations to try.
func searchPaths() []string {
	paths := []string{
		"/etc/graphdesk/graphdesk.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "graphdesk", "graphdesk.yaml"))
	}

	paths = append(paths, "graphdesk.yaml")

	if envPath := os.Getenv("GRAPHDESK_CONFIG"); envPath != "" {
		paths = append(paths, envPath)
	}

	return paths
}

// Load reads configuration from YAML files and environment variables.
// Files are loaded in order (each overrides the previous):
// /etc/graphdesk/graphdesk.yaml < ~/.config/graphdesk/graphdesk.yaml < ./graphdesk.yaml < $GRAPHDESK_CONFIG
func Load() (*Config, error) {
	cfg := Defaults()

	for _, path := range searchPaths() {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := Defaults()

	if err := loadFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadDotenv loads a .env file from the working directory if present.
// Variables already set in the environment win.
func LoadDotenv() {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables have higher priority than YAML config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRAPH_TENANT_ID"); v != "" {
		cfg.Graph.TenantID = v
	}
	if v := os.Getenv("GRAPH_CLIENT_ID"); v != "" {
		cfg.Graph.ClientID = v
	}
	if v := os.Getenv("GRAPH_CLIENT_SECRET"); v != "" {
		cfg.Graph.ClientSecret = v
	}
	if v := os.Getenv("PLANNER_PLAN_ID"); v != "" {
		cfg.Planner.DefaultPlanID = v
	}
	if v := os.Getenv("PLANNER_BUCKET_ID"); v != "" {
		cfg.Planner.DefaultBucketID = v
	}
	if v := os.Getenv("GRAPHDESK_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from trusted config search paths
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	slog.Debug("loading config file", "path", path)

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	if cfg.Graph.TenantID == "" || cfg.Graph.ClientID == "" || cfg.Graph.ClientSecret == "" {
		return fmt.Errorf("graph.tenant_id, graph.client_id and graph.client_secret are required (set them in the config file, .env or environment)")
	}

	if cfg.Graph.BaseURL == "" {
		return fmt.Errorf("graph.base_url must not be empty")
	}

	if len(cfg.Graph.Scopes) == 0 {
		return fmt.Errorf("graph.scopes must contain at least one scope")
	}

	cfg.Database.Path = ExpandHome(cfg.Database.Path)

	return nil
}
