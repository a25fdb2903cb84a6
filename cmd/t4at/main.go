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

// Command t4at emulates a Type 4A Tag in listen mode against a Casimir
// RF simulation server.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	casimir "github.com/ZaparooProject/go-casimir"
	"github.com/ZaparooProject/go-casimir/transport/serial"
	"github.com/ZaparooProject/go-casimir/transport/tcp"
)

// Package-level flag variables
var (
	flagAddress string
	flagRFPort  int
	flagSerial  string
	flagBaud    int
	flagConfig  string
	flagDebug   bool
)

func init() {
	flag.StringVar(&flagAddress, "address", "127.0.0.1", "Casimir server address")
	flag.IntVar(&flagRFPort, "rf-port", tcp.DefaultRFPort, "Casimir TCP RF port")
	flag.StringVar(&flagSerial, "serial", "", "Serial port carrying the control channel (overrides TCP)")
	flag.IntVar(&flagBaud, "baud", serial.DefaultBaudRate, "Serial baud rate")
	flag.StringVar(&flagConfig, "config", "", "Optional TOML config file")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
}

// parseConfig merges defaults, the optional config file, and explicit
// flags, in that order.
func parseConfig() (config, error) {
	cfg := defaultConfig()

	if flagConfig != "" {
		var err error
		cfg, err = loadFileConfig(flagConfig, cfg)
		if err != nil {
			return config{}, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "address":
			cfg.address = flagAddress
		case "rf-port":
			cfg.rfPort = flagRFPort
		case "serial":
			cfg.serialPort = flagSerial
		case "baud":
			cfg.baudRate = flagBaud
		case "debug":
			cfg.debug = flagDebug
		}
	})

	return cfg, nil
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// connect opens the configured stream endpoint.
func connect(cfg config) (*casimir.Transport, error) {
	if cfg.serialPort != "" {
		return serial.Open(cfg.serialPort, cfg.baudRate)
	}
	return tcp.Dial(cfg.address, cfg.rfPort)
}

func run() int {
	flag.Parse()

	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := newLogger(cfg.debug)

	transport, err := connect(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr,
			"Failed to connect to Casimir server at address %s:%d:\n    %v\nMake sure the server is running\n",
			cfg.address, cfg.rfPort, err)
		return 1
	}
	defer func() { _ = transport.Close() }()

	device, err := casimir.New(transport, casimir.WithLogger(logger))
	if err != nil {
		logger.Error().Err(err).Msg("failed to create device")
		return 1
	}
	logger.Info().
		Hex("nfcid1", device.NFCID1()).
		Str("endpoint", transport.Endpoint()).
		Msg("t4at emulation started")

	// Closing the transport on SIGINT/SIGTERM fails the blocked read and
	// unwinds the session; there is no other cancellation path.
	var interrupted atomic.Bool
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		sig, ok := <-signals
		if !ok {
			return
		}
		interrupted.Store(true)
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		_ = transport.Close()
	}()

	switch err := device.Discovery(); {
	case err == nil:
		// Deactivated by the peer: the session concluded normally.
		return 0
	case interrupted.Load():
		return 0
	case casimir.IsSessionEnd(err):
		logger.Info().Msg("server closed the control channel")
		return 0
	default:
		logger.Error().Err(err).Msg("session failed")
		return 1
	}
}

func main() {
	os.Exit(run())
}
