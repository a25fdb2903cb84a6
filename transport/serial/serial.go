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

// Package serial connects a frame transport to a simulation server whose
// control channel is bridged over a serial link, e.g. a pty exposed by
// socat or a USB serial adapter on a lab bench.
package serial

import (
	casimir "github.com/ZaparooProject/go-casimir"
	goserial "go.bug.st/serial"
)

// DefaultBaudRate is used when the caller passes a non-positive rate.
const DefaultBaudRate = 115200

// Open opens the serial port carrying the control channel and wraps it
// in a frame transport. Open failures wrap casimir.ErrConnectionFailed
// and carry the port name.
func Open(portName string, baudRate int) (*casimir.Transport, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}

	port, err := goserial.Open(portName, &goserial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	})
	if err != nil {
		return nil, casimir.NewConnectionError(portName, err)
	}

	// Frame reads must block until data arrives; the codec relies on
	// io.ReadFull semantics rather than polling.
	if err := port.SetReadTimeout(goserial.NoTimeout); err != nil {
		_ = port.Close()
		return nil, casimir.NewConnectionError(portName, err)
	}

	return casimir.NewTransport(port, portName), nil
}
