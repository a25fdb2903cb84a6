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

// Package casimir emulates contactless devices against a Casimir RF
// simulation server.
//
// The package provides two pieces: a Transport that frames rf packets
// over any byte stream using the server's length-prefixed wire format,
// and a Device that plays a Type 4A Tag through its discovery and active
// phases. Stream endpoints live under transport/: transport/tcp for the
// server's TCP control channel and transport/serial for ports bridged
// over a serial link.
//
// A minimal session:
//
//	t, err := tcp.Dial("127.0.0.1", 7001)
//	if err != nil {
//		// server not reachable
//	}
//	defer t.Close()
//
//	device, err := casimir.New(t)
//	if err != nil {
//		// ...
//	}
//	err = device.Discovery() // returns after deactivation
//
// Discovery blocks until the emulated tag has been selected and then
// deactivated by a reader, or until the stream fails. Failures are never
// retried; one Device drives exactly one session at a time.
package casimir
