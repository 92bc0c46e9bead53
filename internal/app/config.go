package app

import "errors"

// RootFileName is the root config file forgegen looks for at the top of
// every project.
const RootFileName = "forge.hcl"

// Config holds everything an App needs for one generator run.
type Config struct {
	ProjectPath string // directory containing forge.hcl and the build files
	OutPath     string // manifest destination; "-" writes to stdout
	Overrides   string // raw --args override string
	List        bool   // print the argument table instead of generating

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
	}
	if cfg.OutPath == "" {
		cfg.OutPath = "-"
	}
	return &cfg, nil
}
