package configfile

import (
	"fmt"

	"github.com/go-gremlins/solmutate/internal/configuration"
)

// Apply merges cfg's present fields into the configuration package,
// overriding whatever the CLI flags already set there (spec §6.2: "Config
// values override command-line values when both are given"). Call this
// after cobra has parsed flags but before any configuration.Get/GetStringSlice
// read that should honor the override.
func Apply(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if len(cfg.Filenames) > 0 {
		configuration.Set(configuration.MutateFilesKey, cfg.Filenames)
	}
	if len(cfg.Functions) > 0 {
		configuration.Set(configuration.MutateFunctionsKey, cfg.Functions)
	}
	if cfg.Language != "" {
		configuration.Set(configuration.MutateLanguageKey, cfg.Language)
	}
	if len(cfg.Mutations) > 0 {
		configuration.Set(configuration.MutateAlgorithmsKey, cfg.Mutations)
	}
	if cfg.NumMutants != nil {
		configuration.Set(configuration.MutateNumMutantsKey, *cfg.NumMutants)
	}
	if cfg.Seed != nil {
		configuration.Set(configuration.MutateRNGSeedKey, *cfg.Seed)
	}
	if cfg.ValidateMutants != nil {
		configuration.Set(configuration.MutateValidateMutantsKey, *cfg.ValidateMutants)
	}

	for tag, details := range cfg.CompilerDetails {
		if err := applyCompilerDetails(tag, details); err != nil {
			return err
		}
	}

	return nil
}

func applyCompilerDetails(tag string, d CompilerDetails) error {
	switch tag {
	case "solidity":
		if d.Path != "" {
			configuration.Set(configuration.SolidityCompilerKey, d.Path)
		}
		if d.BasePath != "" {
			configuration.Set(configuration.SolidityBasePathKey, d.BasePath)
		}
		if len(d.IncludePaths) > 0 {
			configuration.Set(configuration.SolidityIncludePathsKey, d.IncludePaths)
		}
		if len(d.AllowPaths) > 0 {
			configuration.Set(configuration.SolidityAllowPathsKey, d.AllowPaths)
		}
		if len(d.Remappings) > 0 {
			configuration.Set(configuration.SolidityRemappingsKey, d.Remappings)
		}
	case "vyper":
		if d.Path != "" {
			configuration.Set(configuration.VyperCompilerKey, d.Path)
		}
		if d.RootPath != "" {
			configuration.Set(configuration.VyperRootPathKey, d.RootPath)
		}
	default:
		return fmt.Errorf("configfile: unknown language tag %q in compiler-details", tag)
	}

	return nil
}
