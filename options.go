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

package casimir

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
)

// Option configures a Device during construction.
type Option func(*Device) error

// WithLogger sets the logger used for session diagnostics. The default
// is a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Device) error {
		d.logger = logger
		return nil
	}
}

// WithRandom sets the randomness source used to generate the NFCID1.
// Tests supply a deterministic reader to pin the identifier.
func WithRandom(random io.Reader) Option {
	return func(d *Device) error {
		if random == nil {
			return errors.New("randomness source must not be nil")
		}
		d.random = random
		return nil
	}
}

// WithRATSResponse overrides the fixed answer-to-select payload. The
// value is still constant for the lifetime of the device; there is no
// negotiation.
func WithRATSResponse(rats []byte) Option {
	return func(d *Device) error {
		if len(rats) == 0 {
			return errors.New("RATS response must not be empty")
		}
		d.ratsResponse = append([]byte(nil), rats...)
		return nil
	}
}
