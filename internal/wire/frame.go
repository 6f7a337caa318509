// Package wire implements the framed transport codec shared by the
// Simulator and the Hardware: a magic-tagged, length-prefixed textual
// record on a byte stream, matching the original protocol bit-for-bit.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"hilsim/internal/hilerr"
)

// Magic is the 32-bit big-endian tag that opens every frame.
const Magic uint32 = 0xFEEDBEEF

// MaxPayloadBytes bounds the size of a single frame's payload so a
// corrupt or hostile LENGTH field cannot force an unbounded allocation.
const MaxPayloadBytes = 16 * 1024 * 1024

const headerSize = 8 // 4 bytes magic + 4 bytes length, both big-endian

// Encode serializes obj to compact JSON and prepends the magic and length
// header. It fails with hilerr.ErrEncode if obj cannot be marshaled or the
// resulting payload exceeds MaxPayloadBytes.
func Encode(obj any) ([]byte, error) {
	payload, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", hilerr.ErrEncode)
	}

	if len(payload) > MaxPayloadBytes {
		return nil, fmt.Errorf("payload of %d bytes exceeds cap: %w", len(payload), hilerr.ErrEncode)
	}

	frame := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint32(frame[0:4], Magic)
	binary.BigEndian.PutUint32(frame[4:8], uint32(len(payload)))
	copy(frame[headerSize:], payload)

	return frame, nil
}

// DecodeOne reads exactly one frame from r and unmarshals its payload into
// a map. No partial-frame state survives between calls: each call either
// returns a complete record or an error, and r's read position always sits
// at a frame boundary afterward (assuming a well-formed prior stream).
func DecodeOne(r io.Reader) (map[string]any, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", hilerr.ErrShortRead)
	}

	magic := binary.BigEndian.Uint32(header[0:4])
	if magic != Magic {
		return nil, fmt.Errorf("got magic %#x: %w", magic, hilerr.ErrBadMagic)
	}

	length := binary.BigEndian.Uint32(header[4:8])
	if length > MaxPayloadBytes {
		return nil, fmt.Errorf("advertised length %d exceeds cap: %w", length, hilerr.ErrDecode)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read payload: %w", hilerr.ErrShortRead)
	}

	obj := make(map[string]any)
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", hilerr.ErrDecode)
	}

	return obj, nil
}
