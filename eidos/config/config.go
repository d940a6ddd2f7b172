// Package config loads the small amount of out-of-band configuration an
// embedder may supply: the default RNG seed, logging verbosity, and the
// directory population dumps are written to. None of this is reachable
// from script code; it governs the process, not the simulation.
package config

import (
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the decoded shape of an optional YAML configuration file.
type Config struct {
	Seed     int64  `yaml:"seed"`
	LogLevel string `yaml:"log_level"`
	DumpDir  string `yaml:"dump_dir"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Seed:     1,
		LogLevel: "info",
		DumpDir:  "./dumps",
	}
}

// Load reads and decodes the YAML file at path, starting from Default()
// so any field the file omits keeps its default value. A missing file
// is not an error; it simply yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
