// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// config is the effective emulator configuration after merging defaults,
// the optional TOML file, and command-line flags (flags win).
type config struct {
	address    string
	serialPort string
	rfPort     int
	baudRate   int
	debug      bool
}

func defaultConfig() config {
	return config{
		address: "127.0.0.1",
		rfPort:  7001,
	}
}

// fileConfig mirrors the TOML file layout.
type fileConfig struct {
	Address    string `toml:"address"`
	RFPort     int    `toml:"rf_port"`
	SerialPort string `toml:"serial_port"`
	BaudRate   int    `toml:"baud_rate"`
	Debug      bool   `toml:"debug"`
}

// loadFileConfig applies settings from a TOML file on top of cfg. Only
// keys present in the file override.
func loadFileConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return mergeFileConfig(cfg, raw, meta), nil
}

func mergeFileConfig(cfg config, raw fileConfig, meta toml.MetaData) config {
	if meta.IsDefined("address") {
		if address := strings.TrimSpace(raw.Address); address != "" {
			cfg.address = address
		}
	}
	if meta.IsDefined("rf_port") {
		cfg.rfPort = raw.RFPort
	}
	if meta.IsDefined("serial_port") {
		cfg.serialPort = strings.TrimSpace(raw.SerialPort)
	}
	if meta.IsDefined("baud_rate") {
		cfg.baudRate = raw.BaudRate
	}
	if meta.IsDefined("debug") {
		cfg.debug = raw.Debug
	}
	return cfg
}
