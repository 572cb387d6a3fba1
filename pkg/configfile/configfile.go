// pkg/configfile/configfile.go
package configfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File holds target defaults loaded from a YAML config file. Every field is
// optional; command-line flags override anything set here.
type File struct {
	Profile    string `yaml:"profile"`
	Region     string `yaml:"region"`
	StackName  string `yaml:"stack-name"`
	BucketName string `yaml:"bucket-name"`
	RoleName   string `yaml:"role-name"`
	GitHubOrg  string `yaml:"github-org"`
	GitHubRepo string `yaml:"github-repo"`
}

// Load parses a config file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses config from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &f, nil
}
