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
	"fmt"

	"github.com/ZaparooProject/go-casimir/rf"
)

// Error categories. All of them are fatal to the running session: the
// emulator never retries a failed read, write, or decode.
var (
	// Transport errors - the stream failed or was closed underneath us
	ErrTransportRead   = errors.New("transport read failed")
	ErrTransportWrite  = errors.New("transport write failed")
	ErrTransportClosed = errors.New("transport is closed")

	// ErrConnectionFailed indicates the initial connection to the
	// simulation server could not be established.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrFrameTooLarge indicates an outbound packet does not fit the
	// 16-bit frame length prefix.
	ErrFrameTooLarge = errors.New("frame exceeds maximum length")
)

// ErrMalformedPacket indicates a received frame payload did not decode
// into any known packet type. Re-exported from the rf package so callers
// can classify read failures without importing it.
var ErrMalformedPacket = rf.ErrMalformedPacket

// TransportError wraps stream-level errors with the operation and
// endpoint that failed.
type TransportError struct {
	Err      error  // Underlying error
	Op       string // Operation that failed
	Endpoint string // Remote endpoint or port identifier
}

func (e *TransportError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates the error reported when the simulation
// server cannot be reached at all.
func NewConnectionError(endpoint string, cause error) *TransportError {
	return &TransportError{
		Op:       "connect",
		Endpoint: endpoint,
		Err:      fmt.Errorf("%w: %w", ErrConnectionFailed, cause),
	}
}

// IsSessionEnd returns true if the error reports the peer closing the
// stream on a frame boundary, as opposed to a failure mid-frame or a
// decode error. The simulation server dropping the control channel after
// a deactivation is a normal way for a session to finish; a stream that
// dies halfway through a frame is not.
func IsSessionEnd(err error) bool {
	return errors.Is(err, ErrTransportClosed)
}
