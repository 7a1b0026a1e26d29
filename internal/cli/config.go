package cli

import (
	"github.com/docmender/docmender/internal/q/cascade"
	"github.com/docmender/docmender/internal/resolver"
	"github.com/docmender/docmender/internal/unidiff"
)

// Config is everything the commands need beyond their flags. Values cascade from built-in defaults, then the config file, then environment variables.
type Config struct {
	Generator struct {
		Provider string `json:"provider"`
		Model    string `json:"model"`
		APIKey   string `json:"api_key"`
		BaseURL  string `json:"base_url"`
	} `json:"generator"`

	Resolve struct {
		MarginBefore    int      `json:"margin_before"`
		MarginAfter     int      `json:"margin_after"`
		MinMatchRatio   float64  `json:"min_match_ratio"`
		MaxRemovedLines int      `json:"max_removed_lines"`
		ProtectedKeys   []string `json:"protected_keys"`
	} `json:"resolve"`
}

// DefaultConfigPath is where the config file lives unless --config says otherwise.
func DefaultConfigPath() string {
	return cascade.InUserConfigDirectory(".docmender/config.json")
}

func loadConfig(path string) (Config, error) {
	opts := resolver.DefaultOptions()

	var cfg Config
	err := cascade.New().
		WithDefaults(map[string]any{
			"generator.provider":        "anthropic",
			"resolve.margin_before":     opts.MarginBefore,
			"resolve.margin_after":      opts.MarginAfter,
			"resolve.min_match_ratio":   opts.MinMatchRatio,
			"resolve.max_removed_lines": opts.Rules.MaxRemovedLines,
			"resolve.protected_keys":    opts.Rules.ProtectedKeys,
		}).
		WithJSONFile(path).
		WithEnv(map[string]string{
			"generator.provider": "DOCMENDER_PROVIDER",
			"generator.model":    "DOCMENDER_MODEL",
			"generator.api_key":  "DOCMENDER_API_KEY",
			"generator.base_url": "DOCMENDER_BASE_URL",
		}).
		Load(&cfg)
	return cfg, err
}

// resolverOptions projects the config onto the resolver's thresholds.
func (c Config) resolverOptions() resolver.Options {
	return resolver.Options{
		MarginBefore:  c.Resolve.MarginBefore,
		MarginAfter:   c.Resolve.MarginAfter,
		MinMatchRatio: c.Resolve.MinMatchRatio,
		Rules:         c.diffRules(),
	}
}

func (c Config) diffRules() unidiff.Rules {
	return unidiff.Rules{
		MaxRemovedLines: c.Resolve.MaxRemovedLines,
		ProtectedKeys:   c.Resolve.ProtectedKeys,
	}
}
