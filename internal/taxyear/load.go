package taxyear

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a constant set from a YAML file. Missing fields fall back
// to the compiled-in 2025 values, so an override file only needs the
// figures that changed.
func LoadFile(path string) (*Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "taxyear: read %s", path)
	}

	c := Year2025()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, eris.Wrapf(err, "taxyear: parse %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, eris.Wrapf(err, "taxyear: validate %s", path)
	}
	return c, nil
}
