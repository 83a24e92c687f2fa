package config

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Marshal renders the configuration in the given format ("toml", "yaml"
// or "json"). An empty format means TOML.
func Marshal(c *Config, format string) ([]byte, error) {
	switch format {
	case "", "toml":
		return toml.Marshal(c)
	case "yaml", "yml":
		return yaml.Marshal(c)
	case "json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown dump format %q: must be toml, yaml or json", format)
	}
}
