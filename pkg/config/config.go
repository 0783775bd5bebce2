package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zazapeta/restify/pkg/restify"
	"github.com/zazapeta/restify/pkg/token"
)

// AuthMode selects the default authorization story. It is a required,
// explicitly-typed choice: mounting routable entities with an unset mode
// fails at construction, not at first request.
type AuthMode string

const (
	// ModeNone disables the default handler; operations without their own
	// auth entry are open.
	ModeNone AuthMode = "none"

	// ModeToken uses the header-token flow: verify a signed token from a
	// configured header, resolve the identity, derive the role.
	ModeToken AuthMode = "token"

	// ModeCustom delegates the default handler to user code.
	ModeCustom AuthMode = "custom"
)

// AuthConfig describes the default authorization flow and the login route.
type AuthConfig struct {
	Mode AuthMode `yaml:"mode"`

	// LoginPath and LoginMethod place the token-issuing route (ModeToken).
	LoginPath   string `yaml:"login_path"`
	LoginMethod string `yaml:"login_method"`

	// Secret signs issued tokens (ModeToken).
	Secret string `yaml:"secret"`

	// HeaderName carries the bearer token on authenticated requests.
	HeaderName string `yaml:"header_name"`

	// IdentityField and SecretField name the login payload keys and the
	// identity model attributes they map to.
	IdentityField string `yaml:"identity_field"`
	SecretField   string `yaml:"secret_field"`

	// TokenTTLSeconds bounds token lifetime. Zero issues tokens without
	// expiry.
	TokenTTLSeconds int `yaml:"token_ttl_seconds"`

	// IdentityModel is the model acting as the identity source (ModeToken).
	// Set in code, not from file.
	IdentityModel any `yaml:"-"`

	// RoleDeriver maps (request, identity) to a role tag. Defaults to
	// token.DefaultRoleDeriver.
	RoleDeriver token.RoleDeriver `yaml:"-"`

	// Custom is the default handler for ModeCustom. Set in code.
	Custom restify.AuthHandlerFunc `yaml:"-"`
}

// TokenTTL returns the configured token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLSeconds) * time.Second
}

// Validate checks the auth descriptor. hasRoutable reports whether any
// routable entity exists; without one, no default handler is ever needed.
func (a AuthConfig) Validate(hasRoutable bool) error {
	if !hasRoutable {
		return nil
	}
	switch a.Mode {
	case ModeNone:
		return nil
	case ModeToken:
		if a.Secret == "" {
			return fmt.Errorf("auth: token mode requires a signing secret")
		}
		if a.IdentityModel == nil {
			return fmt.Errorf("auth: token mode requires an identity model")
		}
		return nil
	case ModeCustom:
		if a.Custom == nil {
			return fmt.Errorf("auth: custom mode requires a handler")
		}
		return nil
	case "":
		return fmt.Errorf("auth: mode is required; routable models exist but no auth story is configured")
	default:
		return fmt.Errorf("auth: unknown mode %q", a.Mode)
	}
}

// DocsConfig describes API-specification emission. OutputFile and ServePath
// are mutually exclusive.
type DocsConfig struct {
	Title      string `yaml:"title"`
	Version    string `yaml:"version"`
	OutputFile string `yaml:"output_file"`
	ServePath  string `yaml:"serve_path"`
}

// Enabled reports whether any emission target is configured.
func (d DocsConfig) Enabled() bool {
	return d.OutputFile != "" || d.ServePath != ""
}

// Validate rejects contradictory emission targets.
func (d DocsConfig) Validate() error {
	if d.OutputFile != "" && d.ServePath != "" {
		return fmt.Errorf("docs: output_file and serve_path are mutually exclusive")
	}
	return nil
}

// Config holds all restifyctl settings.
type Config struct {
	BindAddress string     `yaml:"bind_address"`
	Port        string     `yaml:"port"`
	DatabaseURL string     `yaml:"database_url"`
	Auth        AuthConfig `yaml:"auth"`
	Docs        DocsConfig `yaml:"docs"`
}

// newDefault returns a config with default values.
func newDefault() *Config {
	return &Config{
		BindAddress: "0.0.0.0",
		Port:        "8000",
		Auth: AuthConfig{
			LoginPath:     "/login",
			LoginMethod:   "POST",
			HeaderName:    "Authorization",
			IdentityField: "email",
			SecretField:   "password",
		},
		Docs: DocsConfig{
			Title:   "restify API",
			Version: "1.0.0",
		},
	}
}

// Load reads configuration from an optional YAML file and overlays
// environment variables. Environment values take precedence over file values.
func Load(path string) (*Config, error) {
	cfg := newDefault()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnvConfig()
	return cfg, nil
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("RESTIFY_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
	}
	if val := os.Getenv("PORT"); val != "" {
		c.Port = val
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
	}
	if val := os.Getenv("RESTIFY_AUTH_MODE"); val != "" {
		c.Auth.Mode = AuthMode(val)
	}
	if val := os.Getenv("RESTIFY_AUTH_SECRET"); val != "" {
		c.Auth.Secret = val
	}
	if val := os.Getenv("RESTIFY_AUTH_HEADER"); val != "" {
		c.Auth.HeaderName = val
	}
	if val := os.Getenv("RESTIFY_LOGIN_PATH"); val != "" {
		c.Auth.LoginPath = val
	}
	if val := os.Getenv("RESTIFY_LOGIN_METHOD"); val != "" {
		c.Auth.LoginMethod = val
	}
	if val := os.Getenv("RESTIFY_IDENTITY_FIELD"); val != "" {
		c.Auth.IdentityField = val
	}
	if val := os.Getenv("RESTIFY_SECRET_FIELD"); val != "" {
		c.Auth.SecretField = val
	}
	if val := os.Getenv("RESTIFY_TOKEN_TTL_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Auth.TokenTTLSeconds = i
		}
	}
	if val := os.Getenv("RESTIFY_DOCS_OUTPUT_FILE"); val != "" {
		c.Docs.OutputFile = val
	}
	if val := os.Getenv("RESTIFY_DOCS_SERVE_PATH"); val != "" {
		c.Docs.ServePath = val
	}
}
