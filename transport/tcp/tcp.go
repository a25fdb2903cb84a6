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

// Package tcp connects a frame transport to a Casimir server's TCP
// control channel.
package tcp

import (
	"net"
	"strconv"

	casimir "github.com/ZaparooProject/go-casimir"
)

// DefaultRFPort is the TCP port Casimir serves the RF control channel on.
const DefaultRFPort = 7001

// Dial opens the control channel to the simulation server and wraps it
// in a frame transport. Connection failures wrap
// casimir.ErrConnectionFailed and carry the target endpoint.
func Dial(address string, port int) (*casimir.Transport, error) {
	endpoint := net.JoinHostPort(address, strconv.Itoa(port))
	conn, err := net.Dial("tcp", endpoint)
	if err != nil {
		return nil, casimir.NewConnectionError(endpoint, err)
	}
	return casimir.NewTransport(conn, endpoint), nil
}
