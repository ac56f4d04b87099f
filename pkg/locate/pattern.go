package locate

import (
	"fmt"
	"log/slog"
	"math/big"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
)

type Mode int

const (
	ModeASCII Mode = iota
	ModeHex
)

func (m Mode) String() string {
	switch m {
	case ModeASCII:
		return "ascii"
	case ModeHex:
		return "hex"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Pattern is the byte sequence a search looks for, together with the user
// input it was derived from.
type Pattern struct {
	mode  Mode
	input string
	bytes []byte
}

var _ slog.LogValuer = Pattern{}

// PatternFromASCII encodes s as UTF-8, byte for byte.
func PatternFromASCII(s string) Pattern {
	return Pattern{mode: ModeASCII, input: s, bytes: []byte(s)}
}

// PatternFromHex parses s as an unsigned base-16 integer and encodes it in
// the fewest bytes that hold it, least significant byte first. "0" encodes
// to zero bytes.
func PatternFromHex(s string) (Pattern, error) {
	digits, err := normalizeHex(s)
	if err != nil {
		return Pattern{}, errors.WithStack(&PatternError{Input: s, Kind: InvalidHex, Err: err})
	}

	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return Pattern{}, errors.WithStack(&PatternError{Input: s, Kind: InvalidHex, Err: errors.Errorf("parsing %q as base 16", digits)})
	}

	le := n.Bytes()
	slices.Reverse(le)

	return Pattern{mode: ModeHex, input: s, bytes: le}, nil
}

// normalizeHex strips an optional sign and 0x prefix and the underscores
// allowed between digits, returning the bare digits.
func normalizeHex(s string) (string, error) {
	str := strings.TrimSpace(s)
	if strings.HasPrefix(str, "-") {
		return "", errors.New("negative values have no unsigned encoding")
	}
	str = strings.TrimPrefix(str, "+")

	if len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X') {
		str = str[2:]
		// an underscore may follow the prefix directly: 0x_ff
		str = strings.TrimPrefix(str, "_")
	}

	if str == "" {
		return "", errors.New("no digits")
	}

	var sb strings.Builder
	sb.Grow(len(str))
	prevUnderscore := true
	for i := 0; i < len(str); i++ {
		c := str[i]
		switch {
		case c == '_':
			if prevUnderscore {
				return "", errors.Errorf("misplaced underscore at position %d", i)
			}
			prevUnderscore = true
		case isHexDigit(c):
			sb.WriteByte(c)
			prevUnderscore = false
		default:
			return "", errors.Errorf("invalid hex digit %q at position %d", c, i)
		}
	}
	if prevUnderscore {
		return "", errors.New("trailing underscore")
	}

	return sb.String(), nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func (p Pattern) Mode() Mode { return p.mode }

// Input is the text the pattern was built from, unmodified.
func (p Pattern) Input() string { return p.input }

func (p Pattern) Bytes() []byte { return slices.Clone(p.bytes) }

func (p Pattern) Len() int { return len(p.bytes) }

func (p Pattern) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", p.mode.String()),
		slog.String("input", p.input),
		slog.String("bytes", fmt.Sprintf("% x", p.bytes)),
		slog.Int("len", len(p.bytes)),
	)
}

// Query is an unparsed search request: the mode picked on the command line
// and the raw text given for it.
type Query struct {
	Mode  Mode
	Input string
}

func ASCII(s string) Query { return Query{Mode: ModeASCII, Input: s} }

func Hex(s string) Query { return Query{Mode: ModeHex, Input: s} }

func (q Query) Pattern() (Pattern, error) {
	switch q.Mode {
	case ModeASCII:
		return PatternFromASCII(q.Input), nil
	case ModeHex:
		return PatternFromHex(q.Input)
	default:
		return Pattern{}, errors.Errorf("unknown search mode %s", q.Mode)
	}
}
