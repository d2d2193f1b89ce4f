package config

// Config is the root configuration for graphdesk.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Graph    GraphConfig    `yaml:"graph"`
	Planner  PlannerConfig  `yaml:"planner"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	PublicURL string `yaml:"public_url"`
	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file"`
}

// GraphConfig holds the Microsoft Graph application credentials.
// The loaded Config is immutable after startup; components receive it
// explicitly rather than reading process-wide state.
type GraphConfig struct {
	TenantID     string   `yaml:"tenant_id"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	BaseURL      string   `yaml:"base_url"`
	Scopes       []string `yaml:"scopes"`
}

// PlannerConfig provides defaults for tools that omit plan/bucket arguments.
type PlannerConfig struct {
	DefaultPlanID   string `yaml:"default_plan_id"`
	DefaultBucketID string `yaml:"default_bucket_id"`
}

// APIConfig configures the HTTP proxy surface.
type APIConfig struct {
	// Token is the static bearer token required on /api and /events.
	Token string `yaml:"token"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     8320,
			LogLevel: "info",
		},
		Graph: GraphConfig{
			BaseURL: "https://graph.microsoft.com/v1.0",
			Scopes:  []string{"https://graph.microsoft.com/.default"},
		},
		Database: DatabaseConfig{
			Path: "~/.config/graphdesk/graphdesk.db",
		},
	}
}
