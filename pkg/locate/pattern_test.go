package locate

import (
	"encoding/binary"
	"math/big"
	"math/bits"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestPatternFromASCII(t *testing.T) {
	p := PatternFromASCII("héllo")

	assert.Equal(t, ModeASCII, p.Mode())
	assert.Equal(t, "héllo", p.Input())
	assert.Equal(t, []byte{'h', 0xc3, 0xa9, 'l', 'l', 'o'}, p.Bytes())
	assert.Equal(t, 6, p.Len())
}

func TestPatternFromASCII_Empty(t *testing.T) {
	p := PatternFromASCII("")
	assert.Zero(t, p.Len())
}

func TestPatternFromHex(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{in: "0xcafebabe", want: []byte{0xbe, 0xba, 0xfe, 0xca}},
		{in: "0XCAFEBABE", want: []byte{0xbe, 0xba, 0xfe, 0xca}},
		{in: "cafebabe", want: []byte{0xbe, 0xba, 0xfe, 0xca}},
		{in: "0x1", want: []byte{0x01}},
		{in: "0x100", want: []byte{0x00, 0x01}},
		{in: "0x00ff", want: []byte{0xff}},
		{in: "  0xff\n", want: []byte{0xff}},
		{in: "+0x4142", want: []byte{0x42, 0x41}},
		{in: "0xcafe_babe", want: []byte{0xbe, 0xba, 0xfe, 0xca}},
		{in: "0x_ff", want: []byte{0xff}},
		{in: "0x0102030405060708090a", want: []byte{0x0a, 0x09, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}},
		{in: "0", want: []byte{}},
		{in: "0x0000", want: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := PatternFromHex(tt.in)
			require.NoError(t, err)

			assert.Equal(t, ModeHex, p.Mode())
			assert.Equal(t, tt.in, p.Input(), "input should be kept verbatim")
			assert.Equal(t, tt.want, append([]byte{}, p.Bytes()...))
		})
	}
}

func TestPatternFromHex_Invalid(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"0x",
		"zzz",
		"0xcafebabg",
		"-0x1",
		"0x__ff",
		"0xff_",
		"_ff",
		"ff__00",
		"ca fe",
	}

	for _, in := range tests {
		t.Run(strconv.Quote(in), func(t *testing.T) {
			_, err := PatternFromHex(in)
			require.Error(t, err)

			var perr *PatternError
			require.True(t, errors.As(err, &perr), "should be a PatternError, got %T", err)
			assert.Equal(t, in, perr.Input)
			assert.Equal(t, InvalidHex, perr.Kind)
			assert.True(t, errors.Is(err, ErrInvalidHex))
			assert.Equal(t, "Error: Invalid hex string '"+in+"'.", perr.Describe())
		})
	}
}

// The encoded length is ceil(bit_length/8) and the bytes are the value in
// little-endian order.
func TestPatternFromHex_LittleEndianProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		v := rng.Uint64() >> rng.UintN(64)
		in := "0x" + strconv.FormatUint(v, 16)

		p, err := PatternFromHex(in)
		require.NoError(t, err, in)

		wantLen := (bits.Len64(v) + 7) / 8
		require.Equal(t, wantLen, p.Len(), in)

		full := binary.LittleEndian.AppendUint64(nil, v)
		assert.Equal(t, full[:wantLen], append([]byte{}, p.Bytes()...), in)
	}
}

func TestPatternFromHex_BigValues(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	for range 100 {
		raw := make([]byte, 1+rng.IntN(64))
		for i := range raw {
			raw[i] = byte(rng.UintN(256))
		}
		n := new(big.Int).SetBytes(raw)
		in := n.Text(16)

		p, err := PatternFromHex(in)
		require.NoError(t, err, in)

		require.Equal(t, (n.BitLen()+7)/8, p.Len(), in)

		got := p.Bytes()
		for i, j := 0, len(got)-1; i < j; i, j = i+1, j-1 {
			got[i], got[j] = got[j], got[i]
		}
		assert.Zero(t, n.Cmp(new(big.Int).SetBytes(got)), "reversed bytes should decode back to the value for %s", in)
	}
}

func TestPattern_BytesIsCopy(t *testing.T) {
	p := PatternFromASCII("abc")
	b := p.Bytes()
	b[0] = 'z'
	assert.Equal(t, []byte("abc"), p.Bytes())
}

func TestQuery_Pattern(t *testing.T) {
	p, err := ASCII("BC").Pattern()
	require.NoError(t, err)
	assert.Equal(t, ModeASCII, p.Mode())
	assert.Equal(t, []byte("BC"), p.Bytes())

	p, err = Hex("0xcafebabe").Pattern()
	require.NoError(t, err)
	assert.Equal(t, ModeHex, p.Mode())
	assert.Equal(t, []byte{0xbe, 0xba, 0xfe, 0xca}, p.Bytes())

	_, err = Hex("zzz").Pattern()
	assert.True(t, errors.Is(err, ErrInvalidHex))

	_, err = Query{Mode: Mode(7), Input: "x"}.Pattern()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mode(7)")
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "ascii", ModeASCII.String())
	assert.Equal(t, "hex", ModeHex.String())
}
