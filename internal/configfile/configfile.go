// Package configfile loads the .mgnx invocation config file (spec §6.2): a
// strict JSON object with a closed, recognized key set. Unlike the
// .solmutate.yaml file internal/configuration.Init reads, unknown keys here
// are rejected rather than ignored, so the loader goes through
// encoding/json directly instead of viper.
package configfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-gremlins/solmutate/internal/execution"
)

const extension = ".mgnx"

// CompilerDetails is the compiler-details entry for one language tag
// (spec §6.2).
type CompilerDetails struct {
	Path         string   `json:"path"`
	BasePath     string   `json:"base-path,omitempty"`
	IncludePaths []string `json:"include-paths,omitempty"`
	AllowPaths   []string `json:"allow-paths,omitempty"`
	Remappings   []string `json:"remappings,omitempty"`
	RootPath     string   `json:"root-path,omitempty"`
}

// Config is the decoded .mgnx document. Pointer fields distinguish "absent"
// from the type's zero value, since config values override CLI flags only
// when present (spec §6.2).
type Config struct {
	CompilerDetails map[string]CompilerDetails `json:"compiler-details,omitempty"`
	Filenames       []string                   `json:"filenames,omitempty"`
	Functions       []string                   `json:"functions,omitempty"`
	Language        string                     `json:"language,omitempty"`
	Mutations       []string                   `json:"mutations,omitempty"`
	NumMutants      *int                       `json:"num-mutants,omitempty"`
	Seed            *int                       `json:"seed,omitempty"`
	ValidateMutants *bool                      `json:"validate-mutants,omitempty"`
}

// Load reads and strictly decodes the .mgnx file at path. A path not ending
// in .mgnx is rejected outright (spec: "filenames... never .mgnx", the
// inverse constraint applies here: a config path must be .mgnx).
func Load(path string) (*Config, error) {
	if !strings.HasSuffix(path, extension) {
		return nil, execution.NewExitErrf(execution.ConfigExtensionRejected, path)
	}

	//nolint:gosec // path is a user-supplied CLI argument, not untrusted network input
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, execution.NewExitErrf(execution.ConfigParseErr, err.Error())
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, execution.NewExitErrf(execution.ConfigParseErr, fmt.Sprintf("%s: %s", path, err))
	}

	return &cfg, nil
}

// Save writes cfg as the effective-invocation .mgnx file at path (spec
// §6.5 --save-config-files). path must end in .mgnx, mirroring Load.
func Save(path string, cfg *Config) error {
	if !strings.HasSuffix(path, extension) {
		return execution.NewExitErrf(execution.ConfigExtensionRejected, path)
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("configfile: marshal %s: %w", path, err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil { //nolint:gosec
		return execution.NewExitErrf(execution.IoErr, err.Error())
	}

	return nil
}
