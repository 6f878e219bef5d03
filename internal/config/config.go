package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"tailordesk/internal/core/domain"
)

// Config aggregates runtime settings, injected through environment
// variables.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// DBDriver selects sqlite (default, file store) or mysql.
	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DB_DSN" envDefault:"tailordesk.db"`

	// RedisAddr enables inbound-message dedup; empty disables it.
	RedisAddr string `env:"REDIS_ADDR"`

	// Per-role identity lists, comma-separated. A YAML roles file may add
	// more bindings on top.
	Manager string `env:"MANAGER"`
	Sales   string `env:"SALES"`
	Tailor1 string `env:"TAILOR_1"`
	Tailor2 string `env:"TAILOR_2"`

	RolesFile string `env:"ROLES_FILE"`
}

// Load reads and validates configuration.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "mysql" {
		return Config{}, fmt.Errorf("DB_DRIVER must be sqlite or mysql, got %q", cfg.DBDriver)
	}
	if cfg.DBDSN == "" {
		return Config{}, fmt.Errorf("DB_DSN must not be empty")
	}
	return cfg, nil
}

// RoleBindings resolves the role -> identities mapping consumed by the
// engine: the per-role env lists, merged with the optional roles file.
func (c Config) RoleBindings() (map[domain.Role][]string, error) {
	bindings := map[domain.Role][]string{
		domain.RoleManager: splitCSV(c.Manager),
		domain.RoleSales:   splitCSV(c.Sales),
		domain.RoleTailor1: splitCSV(c.Tailor1),
		domain.RoleTailor2: splitCSV(c.Tailor2),
	}

	if c.RolesFile != "" {
		raw, err := os.ReadFile(c.RolesFile)
		if err != nil {
			return nil, fmt.Errorf("read roles file: %w", err)
		}
		var file map[string][]string
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse roles file: %w", err)
		}
		for name, identities := range file {
			role, ok := roleByName(name)
			if !ok {
				return nil, fmt.Errorf("roles file: unknown role %q", name)
			}
			bindings[role] = append(bindings[role], identities...)
		}
	}

	return bindings, nil
}

func roleByName(name string) (domain.Role, bool) {
	candidate := domain.Role(strings.ToUpper(strings.TrimSpace(name)))
	for _, r := range domain.Roles {
		if r == candidate {
			return r, true
		}
	}
	return "", false
}

// splitCSV parses a comma-separated list, dropping empty entries.
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
