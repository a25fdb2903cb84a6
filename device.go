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
	"crypto/rand"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ZaparooProject/go-casimir/rf"
)

const (
	// nfcid1DynamicMarker is the first NFCID1 byte reserved by
	// ISO/IEC 14443-3 for randomly generated, non-unique identifiers.
	nfcid1DynamicMarker = 0x08

	// nfcid1Length is the single-size NFCID1 this device presents.
	nfcid1Length = 4

	// intProtocolIsoDep is the SEL_RES interface protocol indicator for
	// an ISO-DEP capable tag.
	intProtocolIsoDep = 0b01
)

// defaultRATSResponse is the fixed answer to select: minimal ATS with no
// interface bytes. The emulation never negotiates an alternate
// capability set.
var defaultRATSResponse = []byte{0x02, 0x00}

// Device emulates a Type 4A Tag on a Casimir control channel. It plays
// the passive side of discovery: it answers NFC-A polls with its NFCID1,
// answers a select with a fixed RATS response, and then stays activated
// until the reader deactivates it.
//
// Thread Safety: Device is NOT thread-safe. Discovery and Active must be
// driven from a single goroutine; the Device owns its Transport for the
// duration of the session.
type Device struct {
	transport    *Transport
	random       io.Reader
	ratsResponse []byte
	logger       zerolog.Logger
	nfcid1       [nfcid1Length]byte
}

// New creates a device over the given transport and generates its
// NFCID1: the dynamic-identifier marker byte followed by three random
// bytes. The identifier is stable for the lifetime of the Device.
func New(transport *Transport, opts ...Option) (*Device, error) {
	device := &Device{
		transport:    transport,
		random:       rand.Reader,
		ratsResponse: defaultRATSResponse,
		logger:       zerolog.Nop(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	device.nfcid1[0] = nfcid1DynamicMarker
	if _, err := io.ReadFull(device.random, device.nfcid1[1:]); err != nil {
		return nil, fmt.Errorf("failed to generate NFCID1: %w", err)
	}

	return device, nil
}

// NFCID1 returns a copy of the device's anti-collision identifier.
func (d *Device) NFCID1() []byte {
	id := make([]byte, nfcid1Length)
	copy(id, d.nfcid1[:])
	return id
}

// RATSResponse returns a copy of the device's fixed answer to select.
func (d *Device) RATSResponse() []byte {
	return append([]byte(nil), d.ratsResponse...)
}

// Transport returns the underlying frame transport.
func (d *Device) Transport() *Transport {
	return d.transport
}

// Discovery runs the discovery phase: answer NFC-A polls until a reader
// selects the device, then run the active phase. It returns nil once the
// peer deactivates the device; re-arming the emulation is the caller's
// decision. Transport and decode failures propagate unretried.
func (d *Device) Discovery() error {
	d.logger.Debug().
		Hex("nfcid1", d.nfcid1[:]).
		Msg("entering discovery")

	for {
		packet, err := d.transport.ReadPacket()
		if err != nil {
			return err
		}
		d.logPacket(packet)

		switch p := packet.(type) {
		case *rf.PollCommand:
			if p.Technology != rf.TechnologyNfcA {
				continue
			}
			response := &rf.NfcAPollResponse{
				Header: rf.Header{
					Technology: rf.TechnologyNfcA,
				},
				NFCID1:      d.nfcid1[:],
				IntProtocol: intProtocolIsoDep,
			}
			if err := d.transport.WritePacket(response); err != nil {
				return err
			}
		case *rf.T4ATSelectCommand:
			// The response mirrors the commander's sender id back as
			// receiver; this device represents a single identity, so
			// no further addressing checks apply.
			response := &rf.T4ATSelectResponse{
				Header: rf.Header{
					Receiver:   p.Sender,
					Technology: rf.TechnologyNfcA,
					Protocol:   rf.ProtocolIsoDep,
				},
				RATSResponse: d.ratsResponse,
			}
			if err := d.transport.WritePacket(response); err != nil {
				return err
			}
			d.logger.Info().
				Uint16("peer", p.Sender).
				Msg("t4at device selected")
			return d.Active(p.Sender)
		default:
			// Traffic for other technologies or other simulated
			// devices sharing the field.
		}
	}
}

// Active runs the active phase after selection by peer. Application data
// is accepted and discarded; the phase ends when the peer sends a
// deactivate notification.
func (d *Device) Active(peer uint16) error {
	for {
		packet, err := d.transport.ReadPacket()
		if err != nil {
			return err
		}
		d.logPacket(packet)

		switch packet.(type) {
		case *rf.DeactivateNotification:
			d.logger.Info().
				Uint16("peer", peer).
				Msg("t4at device deactivated")
			return nil
		case *rf.Data:
			// No application layer in this emulation.
		default:
		}
	}
}

func (d *Device) logPacket(packet rf.Packet) {
	d.logger.Debug().
		Stringer("type", packet.Type()).
		Msg("rf packet received")
}
