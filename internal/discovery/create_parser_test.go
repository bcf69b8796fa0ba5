package discovery

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-launch-alerts/internal/domain"
	"solana-launch-alerts/internal/solana"
)

func key(fill byte) solana.PublicKey {
	var pk solana.PublicKey
	for i := range pk {
		pk[i] = fill
	}
	return pk
}

func sampleEvent() *domain.CreationEvent {
	return &domain.CreationEvent{
		Name:         "PepeCoin",
		Symbol:       "PEPE2",
		URI:          "https://example.com/meta.json",
		Mint:         key(1),
		BondingCurve: key(2),
		Creator:      key(3),
	}
}

func TestDecodeCreateEvent_Layout(t *testing.T) {
	data := []byte{4, 0, 0, 0, 'P', 'E', 'P', 'E', 1, 0, 0, 0, 'P', 0, 0, 0, 0}
	data = append(data, bytes.Repeat([]byte{0xA1}, 32)...)
	data = append(data, bytes.Repeat([]byte{0xB2}, 32)...)
	data = append(data, bytes.Repeat([]byte{0xC3}, 32)...)

	event, err := DecodeCreateEvent(data)
	require.NoError(t, err)

	assert.Equal(t, "PEPE", event.Name)
	assert.Equal(t, "P", event.Symbol)
	assert.Equal(t, "", event.URI)
	assert.Equal(t, key(0xA1), event.Mint)
	assert.Equal(t, key(0xB2), event.BondingCurve)
	assert.Equal(t, key(0xC3), event.Creator)
}

func TestDecodeCreateEvent_RoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	keyGen := gen.SliceOfN(solana.PublicKeyLength, gen.UInt8())

	properties.Property("decode(encode(x)) == x", prop.ForAll(
		func(name, symbol, uri []byte, mint, curve, creator []byte) bool {
			in := &domain.CreationEvent{
				Name:   string(name),
				Symbol: string(symbol),
				URI:    string(uri),
			}
			copy(in.Mint[:], mint)
			copy(in.BondingCurve[:], curve)
			copy(in.Creator[:], creator)

			out, err := DecodeCreateEvent(EncodeCreateEvent(in))
			if err != nil {
				return false
			}
			return *out == *in
		},
		gen.SliceOf(gen.UInt8()),
		gen.SliceOf(gen.UInt8()),
		gen.SliceOf(gen.UInt8()),
		keyGen, keyGen, keyGen,
	))

	properties.TestingRun(t)
}

func TestDecodeCreateEvent_TruncatedAtEveryOffset(t *testing.T) {
	full := EncodeCreateEvent(sampleEvent())

	for n := 0; n < len(full); n++ {
		event, err := DecodeCreateEvent(full[:n])
		require.ErrorIs(t, err, domain.ErrMalformedPayload, "offset %d", n)
		assert.Nil(t, event, "offset %d returned partial data", n)
	}

	_, err := DecodeCreateEvent(full)
	require.NoError(t, err)
}

func TestDecodeCreateEvent_OversizedLength(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"name length past end", []byte{10, 0, 0, 0, 'a', 'b'}},
		{"max u32 length", []byte{0xFF, 0xFF, 0xFF, 0xFF, 'a'}},
		{"symbol length past end", []byte{1, 0, 0, 0, 'a', 5, 0, 0, 0, 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCreateEvent(tt.data)
			assert.ErrorIs(t, err, domain.ErrMalformedPayload)
		})
	}
}

func TestDecodeCreateEvent_PreservesInvalidUTF8(t *testing.T) {
	in := sampleEvent()
	in.Name = string([]byte{0xff, 0xfe, 'o', 'k'})

	out, err := DecodeCreateEvent(EncodeCreateEvent(in))
	require.NoError(t, err)
	assert.Equal(t, []byte(in.Name), []byte(out.Name))
}

func TestDecodeCreateEvent_IgnoresTrailingBytes(t *testing.T) {
	data := append(EncodeCreateEvent(sampleEvent()), 0xDE, 0xAD)

	out, err := DecodeCreateEvent(data)
	require.NoError(t, err)
	assert.Equal(t, *sampleEvent(), *out)
}

func TestParseCreateLogs(t *testing.T) {
	t.Run("create event", func(t *testing.T) {
		event, ok, err := ParseCreateLogs(EncodeCreateLogs(sampleEvent()))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, *sampleEvent(), *event)
	})

	t.Run("no marker", func(t *testing.T) {
		logs := []string{
			"Program " + solana.PumpFun + " invoke [1]",
			"Program log: Instruction: Buy",
			ProgramDataPrefix + base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
		}
		event, ok, err := ParseCreateLogs(logs)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, event)
	})

	t.Run("marker must match the whole line", func(t *testing.T) {
		_, ok, _ := ParseCreateLogs([]string{CreateMarker + "Metadata"})
		assert.False(t, ok)
	})

	t.Run("marker without data line", func(t *testing.T) {
		_, ok, err := ParseCreateLogs([]string{CreateMarker})
		assert.True(t, ok)
		assert.ErrorIs(t, err, domain.ErrMalformedPayload)
	})

	t.Run("bad base64", func(t *testing.T) {
		_, ok, err := ParseCreateLogs([]string{CreateMarker, ProgramDataPrefix + "!!not base64!!"})
		assert.True(t, ok)
		assert.ErrorIs(t, err, domain.ErrMalformedPayload)
	})

	t.Run("first data line wins", func(t *testing.T) {
		logs := EncodeCreateLogs(sampleEvent())
		logs = append(logs, ProgramDataPrefix+"AAAA")
		event, _, err := ParseCreateLogs(logs)
		require.NoError(t, err)
		assert.Equal(t, "PepeCoin", event.Name)
	})
}
