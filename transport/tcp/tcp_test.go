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

package tcp

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	casimir "github.com/ZaparooProject/go-casimir"
	"github.com/ZaparooProject/go-casimir/rf"
)

func TestDial(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			return
		}
		accepted <- conn
	}()

	addr := listener.Addr().(*net.TCPAddr)
	transport, err := Dial("127.0.0.1", addr.Port)
	require.NoError(t, err)
	defer func() { _ = transport.Close() }()

	assert.Equal(t, addr.String(), transport.Endpoint())

	// Frames written by the transport arrive on the accepted side with
	// the expected length prefix.
	var server net.Conn
	select {
	case server = <-accepted:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for accept")
	}
	defer func() { _ = server.Close() }()

	packet := &rf.PollCommand{Header: rf.Header{Technology: rf.TechnologyNfcA}}
	require.NoError(t, transport.WritePacket(packet))

	payload := rf.Encode(packet)
	buf := make([]byte, 2+len(payload))
	require.NoError(t, server.SetReadDeadline(time.Now().Add(time.Second)))
	_, err = io.ReadFull(server, buf)
	require.NoError(t, err)
	assert.Equal(t, byte(len(payload)), buf[0])
	assert.Equal(t, byte(0), buf[1])
	assert.Equal(t, payload, buf[2:])
}

func TestDialConnectionRefused(t *testing.T) {
	t.Parallel()

	// Grab a free port and close it so the dial is refused.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	transport, err := Dial("127.0.0.1", port)
	require.Error(t, err)
	assert.Nil(t, transport)
	assert.ErrorIs(t, err, casimir.ErrConnectionFailed)
	assert.Contains(t, err.Error(), "127.0.0.1")
}
