package embed

import (
	"fmt"
	"io"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// longest text a single byte can produce: ",\n0xNN"
const byteLiteralMaxLen = 6

/***************************************
 * Byte Formatter
 ***************************************/

// ByteFormatter renders bytes as a C initializer list: "0x01,0x02,0xFF".
// With BytesPerLine > 0 a line break follows every BytesPerLine literals.
type ByteFormatter struct {
	BytesPerLine int
}

func (x ByteFormatter) Multiline(n int) bool {
	return x.BytesPerLine > 0 && n > x.BytesPerLine
}

// Format writes the literal list of data to w in a single pass, without
// intermediate representation. Empty data writes nothing.
func (x ByteFormatter) Format(w io.Writer, data []byte) error {
	var buf [4096]byte
	n := 0

	for i, b := range data {
		if n+byteLiteralMaxLen > len(buf) {
			if _, err := w.Write(buf[:n]); err != nil {
				return err
			}
			n = 0
		}

		if i > 0 {
			buf[n] = ','
			n++
			if x.BytesPerLine > 0 && i%x.BytesPerLine == 0 {
				buf[n] = '\n'
				n++
			}
		}

		buf[n+0] = '0'
		buf[n+1] = 'x'
		buf[n+2] = hexDigits[b>>4]
		buf[n+3] = hexDigits[b&0xF]
		n += 4
	}

	if n > 0 {
		_, err := w.Write(buf[:n])
		return err
	}
	return nil
}

// FormatBytes returns the single line literal list of data.
func FormatBytes(data []byte) string {
	sb := strings.Builder{}
	sb.Grow(len(data) * 5)
	ByteFormatter{}.Format(&sb, data)
	return sb.String()
}

/***************************************
 * Byte Parser
 ***************************************/

// ParseBytes decodes a literal list produced by ByteFormatter, whitespace
// between literals is ignored. Both hex digit cases are accepted.
func ParseBytes(text string) ([]byte, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return []byte{}, nil
	}

	tokens := strings.Split(text, ",")
	result := make([]byte, len(tokens))
	for i, it := range tokens {
		it = strings.TrimSpace(it)
		if len(it) != 4 || it[0] != '0' || (it[1] != 'x' && it[1] != 'X') {
			return nil, fmt.Errorf("invalid byte literal #%d: %q", i, it)
		}

		hi, ok0 := hexValue(it[2])
		lo, ok1 := hexValue(it[3])
		if !ok0 || !ok1 {
			return nil, fmt.Errorf("invalid byte literal #%d: %q", i, it)
		}
		result[i] = hi<<4 | lo
	}
	return result, nil
}

func hexValue(ch byte) (byte, bool) {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0', true
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10, true
	case 'A' <= ch && ch <= 'F':
		return ch - 'A' + 10, true
	default:
		return 0, false
	}
}
