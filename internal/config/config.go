// Package config loads the tessera configuration file. The file uses the
// same surface syntax as definitions and records, so one set of diagnostics
// covers everything the user writes.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Documents configures the external document source. Exactly one of a live
// service (url plus token) or a local archive file may be set.
type Documents struct {
	URL     string `hcl:"url,optional"`
	Token   string `hcl:"token,optional"`
	Archive string `hcl:"archive,optional"`
}

// Config is the decoded configuration file.
type Config struct {
	RootFolder string     `hcl:"root_folder"`
	Documents  *Documents `hcl:"documents,block"`
}

// Load reads and validates the configuration at path. A missing file is
// reported as-is so callers can treat it as "no configuration".
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", path, diags)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RootFolder == "" {
		return fmt.Errorf("root_folder must not be empty")
	}
	d := c.Documents
	if d == nil {
		return nil
	}
	switch {
	case d.URL != "" && d.Archive != "":
		return fmt.Errorf("documents block sets both url and archive; pick one source")
	case d.URL == "" && d.Archive == "":
		return fmt.Errorf("documents block sets neither url nor archive")
	case d.URL != "" && d.Token == "":
		return fmt.Errorf("documents block sets url without token")
	case d.Archive != "" && d.Token != "":
		return fmt.Errorf("documents block sets token with archive; archives need no credentials")
	}
	return nil
}
