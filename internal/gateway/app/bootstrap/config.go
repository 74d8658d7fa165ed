package bootstrap

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the gateway.
type Config struct {
	ServiceID string

	HTTPPort int

	AuthGRPCEndpoint string
	AuthBaseURL      *url.URL
	EventBaseURL     *url.URL
}

// configFile mirrors the YAML schema used by configs/gateway.yaml.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		AuthGRPCEndpoint string `yaml:"auth_grpc_endpoint"`
		AuthBaseURL      string `yaml:"auth_base_url"`
		EventBaseURL     string `yaml:"event_base_url"`
	} `yaml:"dependencies"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:        "gateway",
		HTTPPort:         8000,
		AuthGRPCEndpoint: "localhost:9090",
	}
	authBase := "http://localhost:8080"
	eventBase := "http://localhost:8081"

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.AuthGRPCEndpoint != "" {
			cfg.AuthGRPCEndpoint = f.Dependencies.AuthGRPCEndpoint
		}
		if f.Dependencies.AuthBaseURL != "" {
			authBase = f.Dependencies.AuthBaseURL
		}
		if f.Dependencies.EventBaseURL != "" {
			eventBase = f.Dependencies.EventBaseURL
		}
	}

	cfg.AuthGRPCEndpoint = envOrDefault("AUTH_GRPC_ENDPOINT", cfg.AuthGRPCEndpoint)
	authBase = envOrDefault("AUTH_BASE_URL", authBase)
	eventBase = envOrDefault("EVENT_BASE_URL", eventBase)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)

	cfg.AuthBaseURL, err = url.Parse(authBase)
	if err != nil {
		return Config{}, fmt.Errorf("parse auth base url: %w", err)
	}
	cfg.EventBaseURL, err = url.Parse(eventBase)
	if err != nil {
		return Config{}, fmt.Errorf("parse event base url: %w", err)
	}

	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
