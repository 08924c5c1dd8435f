// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// cliConfig is the shape of gohdbctl's configuration: a YAML file merged
// with GOHDB_* environment variable overrides.
type cliConfig struct {
	Host          string `koanf:"host"`
	Port          int    `koanf:"port"`
	User          string `koanf:"user"`
	Password      string `koanf:"password"`
	Route         string `koanf:"route"`
	RouterAddress string `koanf:"routeraddress"`
	Insecure      bool   `koanf:"insecure"`
}

func loadConfig(path string) (*cliConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.ProviderWithValue("GOHDB_", ".", func(key, value string) (string, interface{}) {
		return envKeyToConfigKey(key), value
	}), nil); err != nil {
		return nil, err
	}

	cfg := &cliConfig{Port: 30015}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKeyToConfigKey(key string) string {
	out := make([]byte, 0, len(key))
	for _, r := range key[len("GOHDB_"):] {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, byte(r))
	}
	return string(out)
}
