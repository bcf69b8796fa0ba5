package discovery

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	"solana-launch-alerts/internal/domain"
	"solana-launch-alerts/internal/solana"
)

// Log lines emitted by the pump.fun program for a token creation.
const (
	CreateMarker      = "Program log: Instruction: Create"
	ProgramDataPrefix = "Program data: "
)

// keyBlockLen is the size of the trailing mint, bonding curve and creator keys.
const keyBlockLen = 3 * solana.PublicKeyLength

// IsCreate reports whether logs contain the creation marker line.
func IsCreate(logs []string) bool {
	for _, line := range logs {
		if line == CreateMarker {
			return true
		}
	}
	return false
}

// ExtractPayload returns the bytes of the first "Program data: " line.
func ExtractPayload(logs []string) ([]byte, error) {
	for _, line := range logs {
		encoded, ok := strings.CutPrefix(line, ProgramDataPrefix)
		if !ok {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
		if err != nil {
			return nil, fmt.Errorf("%w: base64: %v", domain.ErrMalformedPayload, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: no program data line", domain.ErrMalformedPayload)
}

// ParseCreateLogs decodes the creation event carried by a notification's logs.
// ok is false when the logs hold no creation marker.
func ParseCreateLogs(logs []string) (event *domain.CreationEvent, ok bool, err error) {
	if !IsCreate(logs) {
		return nil, false, nil
	}
	data, err := ExtractPayload(logs)
	if err != nil {
		return nil, true, err
	}
	event, err = DecodeCreateEvent(data)
	return event, true, err
}

// DecodeCreateEvent parses the little-endian creation payload:
//
//	u32 nameLen, name, u32 symbolLen, symbol, u32 uriLen, uri,
//	[32]mint, [32]bondingCurve, [32]creator
//
// Strings keep their raw bytes, invalid UTF-8 included. Bytes after the
// creator key are ignored.
func DecodeCreateEvent(data []byte) (*domain.CreationEvent, error) {
	r := payloadReader{data: data}

	name, err := r.string("name")
	if err != nil {
		return nil, err
	}
	symbol, err := r.string("symbol")
	if err != nil {
		return nil, err
	}
	uri, err := r.string("uri")
	if err != nil {
		return nil, err
	}

	if r.remaining() < keyBlockLen {
		return nil, fmt.Errorf("%w: key block needs %d bytes, have %d",
			domain.ErrMalformedPayload, keyBlockLen, r.remaining())
	}

	return &domain.CreationEvent{
		Name:         name,
		Symbol:       symbol,
		URI:          uri,
		Mint:         r.key(),
		BondingCurve: r.key(),
		Creator:      r.key(),
	}, nil
}

// EncodeCreateEvent is the inverse of DecodeCreateEvent.
func EncodeCreateEvent(e *domain.CreationEvent) []byte {
	buf := make([]byte, 0, 12+len(e.Name)+len(e.Symbol)+len(e.URI)+keyBlockLen)
	for _, s := range []string{e.Name, e.Symbol, e.URI} {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
		buf = append(buf, s...)
	}
	buf = append(buf, e.Mint[:]...)
	buf = append(buf, e.BondingCurve[:]...)
	buf = append(buf, e.Creator[:]...)
	return buf
}

// EncodeCreateLogs renders an event as the log lines the program emits.
func EncodeCreateLogs(e *domain.CreationEvent) []string {
	return []string{
		"Program " + solana.PumpFun + " invoke [1]",
		CreateMarker,
		ProgramDataPrefix + base64.StdEncoding.EncodeToString(EncodeCreateEvent(e)),
		"Program " + solana.PumpFun + " success",
	}
}

type payloadReader struct {
	data []byte
	off  int
}

func (r *payloadReader) remaining() int {
	return len(r.data) - r.off
}

func (r *payloadReader) string(field string) (string, error) {
	if r.remaining() < 4 {
		return "", fmt.Errorf("%w: %s length at offset %d: need 4 bytes, have %d",
			domain.ErrMalformedPayload, field, r.off, r.remaining())
	}
	n := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4

	if uint64(n) > uint64(r.remaining()) {
		return "", fmt.Errorf("%w: %s declares %d bytes, have %d",
			domain.ErrMalformedPayload, field, n, r.remaining())
	}
	s := string(r.data[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

func (r *payloadReader) key() solana.PublicKey {
	var pk solana.PublicKey
	copy(pk[:], r.data[r.off:r.off+solana.PublicKeyLength])
	r.off += solana.PublicKeyLength
	return pk
}
