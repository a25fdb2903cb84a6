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

// Package rf implements the binary codec for the RF control packets
// exchanged with a Casimir simulation server.
//
// Every packet starts with a common little-endian header
// (sender, receiver, technology, protocol, packet type) followed by a
// payload specific to the packet type. The packet set is closed: Decode
// only ever produces one of the concrete types defined here, and Encode
// accepts exactly those types.
package rf

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformedPacket is returned by Decode when a buffer cannot be
// interpreted as any known packet type.
var ErrMalformedPacket = errors.New("malformed rf packet")

// Technology identifies the RF technology a packet belongs to.
type Technology byte

// RF technologies.
const (
	TechnologyNfcA Technology = 0x00
	TechnologyNfcB Technology = 0x01
	TechnologyNfcF Technology = 0x02
	TechnologyNfcV Technology = 0x03
	TechnologyRaw  Technology = 0x04
)

func (t Technology) String() string {
	switch t {
	case TechnologyNfcA:
		return "NFC-A"
	case TechnologyNfcB:
		return "NFC-B"
	case TechnologyNfcF:
		return "NFC-F"
	case TechnologyNfcV:
		return "NFC-V"
	case TechnologyRaw:
		return "RAW"
	default:
		return fmt.Sprintf("Technology(0x%02X)", byte(t))
	}
}

// Protocol identifies the interface protocol negotiated on top of a
// technology.
type Protocol byte

// RF protocols.
const (
	ProtocolUndetermined Protocol = 0x00
	ProtocolT1T          Protocol = 0x01
	ProtocolT2T          Protocol = 0x02
	ProtocolT3T          Protocol = 0x03
	ProtocolIsoDep       Protocol = 0x04
	ProtocolNfcDep       Protocol = 0x05
	ProtocolT5T          Protocol = 0x06
)

func (p Protocol) String() string {
	switch p {
	case ProtocolUndetermined:
		return "UNDETERMINED"
	case ProtocolT1T:
		return "T1T"
	case ProtocolT2T:
		return "T2T"
	case ProtocolT3T:
		return "T3T"
	case ProtocolIsoDep:
		return "ISO-DEP"
	case ProtocolNfcDep:
		return "NFC-DEP"
	case ProtocolT5T:
		return "T5T"
	default:
		return fmt.Sprintf("Protocol(0x%02X)", byte(p))
	}
}

// PacketType is the discriminant carried in the packet header.
type PacketType byte

// Packet type discriminants.
const (
	PacketTypeData                   PacketType = 0x00
	PacketTypePollCommand            PacketType = 0x01
	PacketTypePollResponse           PacketType = 0x02
	PacketTypeSelectCommand          PacketType = 0x03
	PacketTypeSelectResponse         PacketType = 0x04
	PacketTypeDeactivateNotification PacketType = 0x05
	PacketTypeFieldInfo              PacketType = 0x06
)

func (t PacketType) String() string {
	switch t {
	case PacketTypeData:
		return "Data"
	case PacketTypePollCommand:
		return "PollCommand"
	case PacketTypePollResponse:
		return "PollResponse"
	case PacketTypeSelectCommand:
		return "SelectCommand"
	case PacketTypeSelectResponse:
		return "SelectResponse"
	case PacketTypeDeactivateNotification:
		return "DeactivateNotification"
	case PacketTypeFieldInfo:
		return "FieldInfo"
	default:
		return fmt.Sprintf("PacketType(0x%02X)", byte(t))
	}
}

// headerSize is the fixed length of the common packet header.
const headerSize = 7

// Header holds the addressing and technology fields common to every
// packet. Sender and Receiver are session identifiers assigned by the
// simulation server; zero addresses the field at large.
type Header struct {
	Sender     uint16
	Receiver   uint16
	Technology Technology
	Protocol   Protocol
}

func (h *Header) header() *Header { return h }

// Packet is one RF control packet. The set of implementations is closed;
// external packages cannot satisfy this interface.
type Packet interface {
	// Type returns the packet type discriminant.
	Type() PacketType

	header() *Header
	appendPayload(dst []byte) []byte
}

// PollCommand is broadcast by a reader probing the field for devices of
// a given technology.
type PollCommand struct {
	Header
}

// Type implements Packet.
func (*PollCommand) Type() PacketType { return PacketTypePollCommand }

func (*PollCommand) appendPayload(dst []byte) []byte { return dst }

// NfcAPollResponse answers a PollCommand for the NFC-A technology with
// the responder's NFCID1 and supported interface protocol bits.
type NfcAPollResponse struct {
	Header
	NFCID1      []byte
	IntProtocol byte
}

// Type implements Packet.
func (*NfcAPollResponse) Type() PacketType { return PacketTypePollResponse }

func (p *NfcAPollResponse) appendPayload(dst []byte) []byte {
	dst = append(dst, byte(len(p.NFCID1)))
	dst = append(dst, p.NFCID1...)
	return append(dst, p.IntProtocol)
}

// T4ATSelectCommand selects a Type 4A Tag for ISO-DEP exchange. Param
// carries the RATS parameter byte (FSDI/DID).
type T4ATSelectCommand struct {
	Header
	Param byte
}

// Type implements Packet.
func (*T4ATSelectCommand) Type() PacketType { return PacketTypeSelectCommand }

func (p *T4ATSelectCommand) appendPayload(dst []byte) []byte {
	return append(dst, p.Param)
}

// T4ATSelectResponse carries the selected tag's answer to select.
type T4ATSelectResponse struct {
	Header
	RATSResponse []byte
}

// Type implements Packet.
func (*T4ATSelectResponse) Type() PacketType { return PacketTypeSelectResponse }

func (p *T4ATSelectResponse) appendPayload(dst []byte) []byte {
	dst = append(dst, byte(len(p.RATSResponse)))
	return append(dst, p.RATSResponse...)
}

// DeactivateNotification tells a selected device that the link is being
// torn down.
type DeactivateNotification struct {
	Header
	DeactivateType byte
	Reason         byte
}

// Type implements Packet.
func (*DeactivateNotification) Type() PacketType { return PacketTypeDeactivateNotification }

func (p *DeactivateNotification) appendPayload(dst []byte) []byte {
	return append(dst, p.DeactivateType, p.Reason)
}

// FieldInfo reports the carrier field being switched on or off.
type FieldInfo struct {
	Header
	FieldStatus byte
}

// Type implements Packet.
func (*FieldInfo) Type() PacketType { return PacketTypeFieldInfo }

func (p *FieldInfo) appendPayload(dst []byte) []byte {
	return append(dst, p.FieldStatus)
}

// Data carries an opaque application payload between activated peers.
type Data struct {
	Header
	Payload []byte
}

// Type implements Packet.
func (*Data) Type() PacketType { return PacketTypeData }

func (p *Data) appendPayload(dst []byte) []byte {
	return append(dst, p.Payload...)
}

// Encode serializes a packet into the wire representation: the common
// header followed by the type-specific payload.
func Encode(p Packet) []byte {
	h := p.header()
	buf := make([]byte, 0, headerSize+8)
	buf = binary.LittleEndian.AppendUint16(buf, h.Sender)
	buf = binary.LittleEndian.AppendUint16(buf, h.Receiver)
	buf = append(buf, byte(h.Technology), byte(h.Protocol), byte(p.Type()))
	return p.appendPayload(buf)
}

// Decode parses a wire buffer into one of the concrete packet types.
// Buffers that are truncated, carry an unknown packet type, or carry a
// payload inconsistent with their type fail with an error wrapping
// ErrMalformedPacket.
func Decode(buf []byte) (Packet, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("%w: %d byte header, need %d", ErrMalformedPacket, len(buf), headerSize)
	}

	hdr := Header{
		Sender:     binary.LittleEndian.Uint16(buf[0:2]),
		Receiver:   binary.LittleEndian.Uint16(buf[2:4]),
		Technology: Technology(buf[4]),
		Protocol:   Protocol(buf[5]),
	}
	packetType := PacketType(buf[6])
	payload := buf[headerSize:]

	switch packetType {
	case PacketTypeData:
		return &Data{Header: hdr, Payload: append([]byte(nil), payload...)}, nil
	case PacketTypePollCommand:
		// Poll commands may carry technology-specific payload bytes
		// which are not needed to answer the poll.
		return &PollCommand{Header: hdr}, nil
	case PacketTypePollResponse:
		return decodePollResponse(hdr, payload)
	case PacketTypeSelectCommand:
		return decodeSelectCommand(hdr, payload)
	case PacketTypeSelectResponse:
		return decodeSelectResponse(hdr, payload)
	case PacketTypeDeactivateNotification:
		if len(payload) < 2 {
			return nil, fmt.Errorf("%w: deactivate notification payload %d bytes, need 2",
				ErrMalformedPacket, len(payload))
		}
		return &DeactivateNotification{Header: hdr, DeactivateType: payload[0], Reason: payload[1]}, nil
	case PacketTypeFieldInfo:
		if len(payload) < 1 {
			return nil, fmt.Errorf("%w: field info payload is empty", ErrMalformedPacket)
		}
		return &FieldInfo{Header: hdr, FieldStatus: payload[0]}, nil
	default:
		return nil, fmt.Errorf("%w: unknown packet type 0x%02X", ErrMalformedPacket, byte(packetType))
	}
}

func decodePollResponse(hdr Header, payload []byte) (Packet, error) {
	if hdr.Technology != TechnologyNfcA {
		return nil, fmt.Errorf("%w: poll response for unsupported technology %s",
			ErrMalformedPacket, hdr.Technology)
	}
	if len(payload) < 1 {
		return nil, fmt.Errorf("%w: poll response payload is empty", ErrMalformedPacket)
	}
	idLen := int(payload[0])
	if len(payload) < 1+idLen+1 {
		return nil, fmt.Errorf("%w: poll response payload %d bytes, need %d",
			ErrMalformedPacket, len(payload), 1+idLen+1)
	}
	return &NfcAPollResponse{
		Header:      hdr,
		NFCID1:      append([]byte(nil), payload[1:1+idLen]...),
		IntProtocol: payload[1+idLen],
	}, nil
}

func decodeSelectCommand(hdr Header, payload []byte) (Packet, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("%w: select command payload is empty", ErrMalformedPacket)
	}
	return &T4ATSelectCommand{Header: hdr, Param: payload[0]}, nil
}

func decodeSelectResponse(hdr Header, payload []byte) (Packet, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("%w: select response payload is empty", ErrMalformedPacket)
	}
	ratsLen := int(payload[0])
	if len(payload) < 1+ratsLen {
		return nil, fmt.Errorf("%w: select response payload %d bytes, need %d",
			ErrMalformedPacket, len(payload), 1+ratsLen)
	}
	return &T4ATSelectResponse{
		Header:       hdr,
		RATSResponse: append([]byte(nil), payload[1:1+ratsLen]...),
	}, nil
}
