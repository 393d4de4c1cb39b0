package foundation

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// StringEncoding names a character encoding for String data.
type StringEncoding int

const (
	StringEncodingASCII StringEncoding = iota + 1
	StringEncodingLatin1
	StringEncodingLatin2
	StringEncodingMacRoman
	StringEncodingUTF16
	StringEncodingUTF32
	StringEncodingUTF8
	StringEncodingWCP1250
	StringEncodingWCP1251
	StringEncodingWCP1252
)

var encodingNames = map[StringEncoding]string{
	StringEncodingASCII:    "ASCII",
	StringEncodingLatin1:   "ISO-8859-1",
	StringEncodingLatin2:   "ISO-8859-2",
	StringEncodingMacRoman: "MacRoman",
	StringEncodingUTF16:    "UTF-16",
	StringEncodingUTF32:    "UTF-32",
	StringEncodingUTF8:     "UTF-8",
	StringEncodingWCP1250:  "WINDOWS-1250",
	StringEncodingWCP1251:  "WINDOWS-1251",
	StringEncodingWCP1252:  "WINDOWS-1252",
}

// String implements the Stringer interface.
func (e StringEncoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("StringEncoding(%d)", int(e))
}

// ErrEncoding is returned when bytes cannot be decoded from, or text cannot
// be encoded to, a StringEncoding.
var ErrEncoding = errors.New("invalid encoding")

// codec returns the x/text encoding for enc, or nil for the encodings that
// are handled natively (ASCII and UTF-8).
func codec(enc StringEncoding) (encoding.Encoding, error) {
	switch enc {
	case StringEncodingASCII, StringEncodingUTF8:
		return nil, nil
	case StringEncodingLatin1:
		return charmap.ISO8859_1, nil
	case StringEncodingLatin2:
		return charmap.ISO8859_2, nil
	case StringEncodingMacRoman:
		return charmap.Macintosh, nil
	case StringEncodingUTF16:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case StringEncodingUTF32:
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM), nil
	case StringEncodingWCP1250:
		return charmap.Windows1250, nil
	case StringEncodingWCP1251:
		return charmap.Windows1251, nil
	case StringEncodingWCP1252:
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("%w: unknown encoding %v", ErrEncoding, enc)
}

// decode converts bytes in enc to UTF-8 text.
func decode(b []byte, enc StringEncoding) (string, error) {
	c, err := codec(enc)
	if err != nil {
		return "", err
	}
	switch enc {
	case StringEncodingASCII:
		for i, x := range b {
			if x >= utf8.RuneSelf {
				return "", fmt.Errorf("%w: byte %#x at %d is not ASCII", ErrEncoding, x, i)
			}
		}
		return string(b), nil
	case StringEncodingUTF8:
		if !utf8.Valid(b) {
			return "", fmt.Errorf("%w: invalid UTF-8", ErrEncoding)
		}
		return string(b), nil
	}
	if err := validate(b, enc, c); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrEncoding, enc, err)
	}
	out, err := c.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrEncoding, enc, err)
	}
	return string(out), nil
}

// validate rejects input the x/text decoders would otherwise replace with
// U+FFFD.
func validate(b []byte, enc StringEncoding, c encoding.Encoding) error {
	if cm, ok := c.(*charmap.Charmap); ok {
		for i, x := range b {
			if cm.DecodeByte(x) == utf8.RuneError {
				return fmt.Errorf("byte %#x at %d is not mapped", x, i)
			}
		}
		return nil
	}
	if enc == StringEncodingUTF32 {
		return validateUTF32(b)
	}
	return validateUTF16(b)
}

// validateUTF16 checks alignment and surrogate pairing. A leading byte order
// mark selects the byte order, big-endian otherwise.
func validateUTF16(b []byte) error {
	if len(b)%2 != 0 {
		return fmt.Errorf("odd length %d", len(b))
	}
	var order binary.ByteOrder = binary.BigEndian
	if len(b) >= 2 && b[0] == 0xff && b[1] == 0xfe {
		order = binary.LittleEndian
	}
	for i := 0; i < len(b); i += 2 {
		u := rune(order.Uint16(b[i:]))
		switch {
		case u >= 0xdc00 && u <= 0xdfff:
			return fmt.Errorf("unpaired low surrogate at %d", i)
		case utf16.IsSurrogate(u):
			if i+4 > len(b) {
				return fmt.Errorf("unpaired high surrogate at %d", i)
			}
			if next := rune(order.Uint16(b[i+2:])); next < 0xdc00 || next > 0xdfff {
				return fmt.Errorf("unpaired high surrogate at %d", i)
			}
			i += 2
		}
	}
	return nil
}

func validateUTF32(b []byte) error {
	if len(b)%4 != 0 {
		return fmt.Errorf("length %d is not a multiple of 4", len(b))
	}
	var order binary.ByteOrder = binary.BigEndian
	if len(b) >= 4 && binary.LittleEndian.Uint32(b) == 0xfeff {
		order = binary.LittleEndian
	}
	for i := 0; i < len(b); i += 4 {
		if r := rune(order.Uint32(b[i:])); !utf8.ValidRune(r) {
			return fmt.Errorf("%#x at %d is not a valid code point", order.Uint32(b[i:]), i)
		}
	}
	return nil
}

// encode converts UTF-8 text to bytes in enc.
func encode(s string, enc StringEncoding) ([]byte, error) {
	c, err := codec(enc)
	if err != nil {
		return nil, err
	}
	switch enc {
	case StringEncodingASCII:
		for i, r := range s {
			if r >= utf8.RuneSelf {
				return nil, fmt.Errorf("%w: %q at %d is not ASCII", ErrEncoding, r, i)
			}
		}
		return []byte(s), nil
	case StringEncodingUTF8:
		return []byte(s), nil
	}
	out, err := c.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncoding, enc, err)
	}
	return out, nil
}

// ParseStringEncoding returns the encoding with the given case-insensitive
// canonical name.
func ParseStringEncoding(name string) (StringEncoding, error) {
	for enc, n := range encodingNames {
		if strings.EqualFold(n, name) {
			return enc, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown encoding name %q", ErrEncoding, name)
}
