// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// applyConfigFile reads the named YAML file and applies its settings to the
// flags of the same names, but only to flags not explicitly set on the command
// line. For instance:
//
//	threads: 4
//	max-queue-size: 20
//	timeout: 2s
//	dedup: true
func applyConfigFile(flags *pflag.FlagSet, name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}
	settings := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("invalid config file %q: %w", name, err)
	}
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		flag := flags.Lookup(key)
		if flag == nil || key == "config" {
			return fmt.Errorf("config file %q: unknown setting %q", name, key)
		}
		if flag.Changed {
			continue
		}
		if err := flag.Value.Set(fmt.Sprint(settings[key])); err != nil {
			return fmt.Errorf("config file %q: invalid %s setting: %w", name, key, err)
		}
	}
	return nil
}
