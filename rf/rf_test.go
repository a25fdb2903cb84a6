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

package rf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHeader(t *testing.T) {
	t.Parallel()

	packet := &PollCommand{Header: Header{
		Sender:     0x1234,
		Receiver:   0xABCD,
		Technology: TechnologyNfcA,
		Protocol:   ProtocolUndetermined,
	}}

	buf := Encode(packet)
	require.Len(t, buf, 7)
	// Little-endian sender and receiver, then technology, protocol, type.
	assert.Equal(t, []byte{0x34, 0x12, 0xCD, 0xAB, 0x00, 0x00, 0x01}, buf)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		packet Packet
		name   string
	}{
		{
			name: "poll command",
			packet: &PollCommand{Header: Header{
				Sender: 1, Technology: TechnologyNfcA,
			}},
		},
		{
			name: "nfc-a poll response",
			packet: &NfcAPollResponse{
				Header:      Header{Technology: TechnologyNfcA},
				NFCID1:      []byte{0x08, 0x11, 0x22, 0x33},
				IntProtocol: 0b01,
			},
		},
		{
			name: "t4at select command",
			packet: &T4ATSelectCommand{
				Header: Header{Sender: 0x42, Technology: TechnologyNfcA, Protocol: ProtocolIsoDep},
				Param:  0x80,
			},
		},
		{
			name: "t4at select response",
			packet: &T4ATSelectResponse{
				Header:       Header{Receiver: 0x42, Technology: TechnologyNfcA, Protocol: ProtocolIsoDep},
				RATSResponse: []byte{0x02, 0x00},
			},
		},
		{
			name: "deactivate notification",
			packet: &DeactivateNotification{
				Header:         Header{Sender: 3},
				DeactivateType: 0x01,
				Reason:         0x02,
			},
		},
		{
			name: "field info",
			packet: &FieldInfo{
				Header:      Header{Technology: TechnologyRaw},
				FieldStatus: 0x01,
			},
		},
		{
			name: "data",
			packet: &Data{
				Header:  Header{Sender: 5, Receiver: 6, Technology: TechnologyNfcA, Protocol: ProtocolIsoDep},
				Payload: []byte{0xDE, 0xAD, 0xBE, 0xEF},
			},
		},
		{
			name:   "data with empty payload",
			packet: &Data{Header: Header{Sender: 5}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decoded, err := Decode(Encode(tt.packet))
			require.NoError(t, err)
			assert.Equal(t, tt.packet.Type(), decoded.Type())

			// Data round-trips an empty payload as nil.
			if d, ok := tt.packet.(*Data); ok && len(d.Payload) == 0 {
				assert.Empty(t, decoded.(*Data).Payload)
				return
			}
			assert.Equal(t, tt.packet, decoded)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		buf  []byte
	}{
		{name: "empty buffer", buf: nil},
		{name: "truncated header", buf: []byte{0x00, 0x00, 0x00, 0x00}},
		{name: "unknown packet type", buf: []byte{0, 0, 0, 0, 0, 0, 0x7F}},
		{name: "poll response without payload", buf: []byte{0, 0, 0, 0, 0x00, 0, 0x02}},
		{
			name: "poll response truncated nfcid1",
			buf:  []byte{0, 0, 0, 0, 0x00, 0, 0x02, 0x04, 0x08, 0x11},
		},
		{
			name: "poll response for unsupported technology",
			buf:  []byte{0, 0, 0, 0, 0x01, 0, 0x02, 0x01, 0xAA, 0x00},
		},
		{name: "select command without param", buf: []byte{0, 0, 0, 0, 0x00, 0x04, 0x03}},
		{name: "select response without payload", buf: []byte{0, 0, 0, 0, 0x00, 0x04, 0x04}},
		{
			name: "select response truncated rats",
			buf:  []byte{0, 0, 0, 0, 0x00, 0x04, 0x04, 0x05, 0x02},
		},
		{name: "deactivate notification short", buf: []byte{0, 0, 0, 0, 0, 0, 0x05, 0x01}},
		{name: "field info without status", buf: []byte{0, 0, 0, 0, 0x04, 0, 0x06}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			packet, err := Decode(tt.buf)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPacket)
			assert.Nil(t, packet)
		})
	}
}

func TestDecodePollCommandIgnoresExtraPayload(t *testing.T) {
	t.Parallel()

	// Poll commands may carry technology-specific bytes the responder
	// does not need.
	packet, err := Decode([]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0xAA, 0xBB})
	require.NoError(t, err)

	poll, ok := packet.(*PollCommand)
	require.True(t, ok)
	assert.Equal(t, uint16(1), poll.Sender)
	assert.Equal(t, TechnologyNfcA, poll.Technology)
}

func TestEnumStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NFC-A", TechnologyNfcA.String())
	assert.Equal(t, "Technology(0x7F)", Technology(0x7F).String())
	assert.Equal(t, "ISO-DEP", ProtocolIsoDep.String())
	assert.Equal(t, "Protocol(0x7F)", Protocol(0x7F).String())
	assert.Equal(t, "SelectCommand", PacketTypeSelectCommand.String())
	assert.Equal(t, "PacketType(0x7F)", PacketType(0x7F).String())
}
