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

// Package rftest provides a scripted reader peer for device tests. It
// plays the simulation-server side of a session over an in-memory
// stream: tests send poll/select/deactivate packets through it and
// assert on the frames the device emits back.
package rftest

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	casimir "github.com/ZaparooProject/go-casimir"
	"github.com/ZaparooProject/go-casimir/rf"
)

// Reader is the scripted reader/simulator end of an in-memory session.
type Reader struct {
	conn      net.Conn
	transport *casimir.Transport
}

// NewPair creates a connected reader and device transport backed by
// net.Pipe. The device transport is handed to casimir.New; the Reader
// stays with the test.
func NewPair() (*Reader, *casimir.Transport) {
	readerConn, deviceConn := net.Pipe()
	reader := &Reader{
		conn:      readerConn,
		transport: casimir.NewTransport(readerConn, "rftest-reader"),
	}
	return reader, casimir.NewTransport(deviceConn, "rftest-device")
}

// Send writes one packet to the device.
func (r *Reader) Send(packet rf.Packet) error {
	return r.transport.WritePacket(packet)
}

// SendRaw writes one frame with an arbitrary payload, bypassing the
// packet codec. Tests use it to deliver undecodable payloads.
func (r *Reader) SendRaw(payload []byte) error {
	if err := r.conn.SetWriteDeadline(time.Now().Add(time.Second)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	defer func() { _ = r.conn.SetWriteDeadline(time.Time{}) }()

	frame := make([]byte, 2+len(payload))
	frame[0] = byte(len(payload))
	frame[1] = byte(len(payload) >> 8)
	copy(frame[2:], payload)
	if _, err := r.conn.Write(frame); err != nil {
		return fmt.Errorf("write raw frame: %w", err)
	}
	return nil
}

// SendBytes writes arbitrary bytes to the stream without framing. Tests
// use it to fabricate truncated frames.
func (r *Reader) SendBytes(raw []byte) error {
	if err := r.conn.SetWriteDeadline(time.Now().Add(time.Second)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	defer func() { _ = r.conn.SetWriteDeadline(time.Time{}) }()

	if _, err := r.conn.Write(raw); err != nil {
		return fmt.Errorf("write raw bytes: %w", err)
	}
	return nil
}

// Receive blocks for up to timeout waiting for one packet from the
// device.
func (r *Reader) Receive(timeout time.Duration) (rf.Packet, error) {
	if err := r.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}
	defer func() { _ = r.conn.SetReadDeadline(time.Time{}) }()
	return r.transport.ReadPacket()
}

// ExpectSilence asserts the device emits nothing for the given window.
// It returns an error if any frame (or any stray byte) arrives.
func (r *Reader) ExpectSilence(window time.Duration) error {
	if err := r.conn.SetReadDeadline(time.Now().Add(window)); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}
	defer func() { _ = r.conn.SetReadDeadline(time.Time{}) }()

	buf := make([]byte, 1)
	_, err := r.conn.Read(buf)
	if err == nil {
		return errors.New("unexpected frame from device")
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return nil
	}
	return fmt.Errorf("read during silence window: %w", err)
}

// Close tears the stream down; a blocked device read fails over to its
// error path.
func (r *Reader) Close() error {
	if err := r.conn.Close(); err != nil {
		return fmt.Errorf("close reader conn: %w", err)
	}
	return nil
}
