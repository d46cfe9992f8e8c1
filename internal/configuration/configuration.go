/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package configuration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// This is the list of the keys available in config files and as flags.
const (
	SolmutateSilentKey         = "silent"
	MutateFilesKey             = "mutate.files"
	MutateLanguageKey          = "mutate.language"
	MutateFunctionsKey         = "mutate.functions"
	MutateSkipKindsKey         = "mutate.skip-kinds"
	MutateAllAlgorithmsKey     = "mutate.all"
	MutateAlgorithmsKey        = "mutate.mutations"
	MutateNumMutantsKey        = "mutate.num-mutants"
	MutateRNGSeedKey           = "mutate.rng-seed"
	MutateSaveConfigFilesKey   = "mutate.save-config-files"
	MutateValidateMutantsKey  = "mutate.validate-mutants"
	MutateOutputKey            = "mutate.output"
	MutateStdoutKey            = "mutate.stdout"
	MutatePrintOriginalKey     = "mutate.print-original"
	MutateWorkersKey           = "mutate.workers"
	SolidityCompilerKey        = "mutate.solidity.compiler"
	SolidityBasePathKey        = "mutate.solidity.base-path"
	SolidityIncludePathsKey    = "mutate.solidity.include-paths"
	SolidityAllowPathsKey      = "mutate.solidity.allow-paths"
	SolidityRemappingsKey      = "mutate.solidity.remappings"
	VyperCompilerKey           = "mutate.vyper.compiler"
	VyperRootPathKey           = "mutate.vyper.root-path"
	MutateDiffRefKey           = "mutate.diff"
	MutateExcludeFilesKey      = "mutate.exclude-files"
	MutateConfigFileKey        = "mutate.mgnx-file"
	PrettyPrintOutputKey       = "pretty-print.output"
	AlgorithmsListKey          = "algorithms.list"
	AlgorithmsDetailKey        = "algorithms.detail"
)

const (
	cfgName      = ".solmutate"
	envVarPrefix = "SOLMUTATE"

	xdgConfigHomeKey = "XDG_CONFIG_HOME"

	windowsOs = "windows"
)

// Init initializes the viper configuration for solmutate.
//
// It sets the configuration file name as .solmutate.yaml, adds the passed
// paths as ConfigPaths and enables AutomaticEnv with a SOLMUTATE prefix.
// Environment variables take precedence over the configuration file and
// must be set in the format:
//
//	SOLMUTATE_<FLAG NAME>
func Init(cPaths []string) error {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetEnvPrefix(envVarPrefix)
	viper.AutomaticEnv()
	viper.SetConfigName(cfgName)
	viper.SetConfigType("yaml")

	if isSpecificFile(cPaths) {
		viper.SetConfigFile(cPaths[0])
		err := viper.ReadInConfig()
		if err != nil {
			return err
		}
	} else if arePathsNotSet(cPaths) {
		cPaths = defaultConfigPaths()
	}

	for _, p := range cPaths {
		viper.AddConfigPath(p)
	}

	_ = viper.ReadInConfig() // ignoring error if file not present

	return nil
}

func isSpecificFile(cPaths []string) bool {
	return len(cPaths) == 1 && filepath.Ext(cPaths[0]) != ""
}

func arePathsNotSet(cPaths []string) bool {
	return len(cPaths) == 0 || len(cPaths) == 1 && cPaths[0] == ""
}

func defaultConfigPaths() []string {
	result := make([]string, 0, 4)

	// First global config
	if runtime.GOOS != windowsOs {
		result = append(result, "/etc/solmutate")
	}

	// Then $XDG_CONFIG_HOME
	xchLocation, _ := homedir.Expand("~/.config")
	if x := os.Getenv(xdgConfigHomeKey); x != "" {
		xchLocation = x
	}
	xchLocation = filepath.Join(xchLocation, "solmutate", "solmutate")
	result = append(result, xchLocation)

	// Then $HOME
	homeLocation, err := homedir.Expand("~/.solmutate")
	if err != nil {
		return result
	}
	result = append(result, homeLocation)

	// Then the Go module root
	if root := findModuleRoot(); root != "" {
		result = append(result, root)
	}

	// Finally the current directory
	result = append(result, ".")

	return result
}

func findModuleRoot() string {
	path, _ := os.Getwd()
	for {
		if fi, err := os.Stat(filepath.Join(path, "go.mod")); err == nil && !fi.IsDir() {
			return path
		}
		d := filepath.Dir(path)
		if d == path {
			break
		}
		path = d
	}

	return ""
}

var mutex sync.RWMutex

// Set offers synchronised access to Viper.
func Set[T any](k string, v T) {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Set(k, v)
}

// Get offers synchronised access to Viper.
func Get[T any](k string) T {
	var r T
	mutex.RLock()
	defer mutex.RUnlock()
	r, _ = viper.Get(k).(T)

	return r
}

// GetStringSlice offers synchronised access to a repeatable ([]string)
// config value. It goes through viper.GetStringSlice rather than the
// generic Get, since a plain type assertion on viper's internal
// representation of a bound pflag StringArray is not reliable.
func GetStringSlice(k string) []string {
	mutex.RLock()
	defer mutex.RUnlock()

	return viper.GetStringSlice(k)
}

// Reset is used mainly for testing purposes, in order to clean up the Viper
// instance.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Reset()
}
