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
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ZaparooProject/go-casimir/internal/syncutil"
	"github.com/ZaparooProject/go-casimir/rf"
)

// frameHeaderSize is the length of the frame prefix: a 16-bit
// little-endian payload length.
const frameHeaderSize = 2

// maxFramePayload is the largest payload representable in the length
// prefix.
const maxFramePayload = 0xFFFF

// Transport exchanges rf packets over a byte stream using the Casimir
// control channel framing: every frame is a 2-byte little-endian payload
// length followed by exactly that many bytes of encoded packet.
//
// Reads block until a full frame is available or the stream fails; there
// are no timeouts. Writes are serialized internally, so a Transport is
// safe for use by multiple writers, though the emulated device only ever
// has one.
type Transport struct {
	rw       io.ReadWriteCloser
	endpoint string
	wmu      syncutil.Mutex
}

// NewTransport wraps a byte stream in the frame codec. endpoint is a
// human-readable name for the peer used in error messages; it may be
// empty.
func NewTransport(rw io.ReadWriteCloser, endpoint string) *Transport {
	return &Transport{
		rw:       rw,
		endpoint: endpoint,
	}
}

// Endpoint returns the peer name this transport was created with.
func (t *Transport) Endpoint() string {
	return t.endpoint
}

// ReadPacket blocks until one full frame has been read, then decodes its
// payload. A stream that closes on a frame boundary fails with
// ErrTransportClosed; one that dies mid-frame fails with
// ErrTransportRead; a payload that does not decode fails with
// ErrMalformedPacket. All three end the session.
func (t *Transport) ReadPacket() (rf.Packet, error) {
	var prefix [frameHeaderSize]byte
	if _, err := io.ReadFull(t.rw, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &TransportError{
				Op: "ReadPacket", Endpoint: t.endpoint,
				Err: ErrTransportClosed,
			}
		}
		return nil, &TransportError{
			Op: "ReadPacket", Endpoint: t.endpoint,
			Err: fmt.Errorf("%w: frame header: %w", ErrTransportRead, err),
		}
	}

	length := binary.LittleEndian.Uint16(prefix[:])
	payload := make([]byte, length)
	if n, err := io.ReadFull(t.rw, payload); err != nil {
		// A closure here means the peer announced length bytes and
		// delivered fewer. Never surface the partial frame.
		return nil, &TransportError{
			Op: "ReadPacket", Endpoint: t.endpoint,
			Err: fmt.Errorf("%w: frame truncated at %d of %d bytes: %w",
				ErrTransportRead, n, length, err),
		}
	}

	packet, err := rf.Decode(payload)
	if err != nil {
		return nil, &TransportError{Op: "ReadPacket", Endpoint: t.endpoint, Err: err}
	}
	return packet, nil
}

// WritePacket encodes a packet and writes its length prefix and payload
// as one contiguous buffer.
func (t *Transport) WritePacket(packet rf.Packet) error {
	payload := rf.Encode(packet)
	if len(payload) > maxFramePayload {
		return &TransportError{
			Op: "WritePacket", Endpoint: t.endpoint,
			Err: fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload)),
		}
	}

	frame := make([]byte, frameHeaderSize+len(payload))
	binary.LittleEndian.PutUint16(frame, uint16(len(payload)))
	copy(frame[frameHeaderSize:], payload)

	t.wmu.Lock()
	defer t.wmu.Unlock()
	if _, err := t.rw.Write(frame); err != nil {
		return &TransportError{
			Op: "WritePacket", Endpoint: t.endpoint,
			Err: fmt.Errorf("%w: %w", ErrTransportWrite, err),
		}
	}
	return nil
}

// Close closes the underlying stream. Any blocked ReadPacket fails.
func (t *Transport) Close() error {
	if err := t.rw.Close(); err != nil {
		return &TransportError{Op: "Close", Endpoint: t.endpoint, Err: err}
	}
	return nil
}
