package inverter

import (
	"fmt"
	"unicode/utf8"
)

// registerWords converts a Modbus holding-register response payload into
// 16-bit big-endian words.
func registerWords(data []byte) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("register payload has odd length %d", len(data))
	}
	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return words, nil
}

// DecodeValue interprets the register words of a single parameter. The slice
// must hold exactly p.Length words.
func DecodeValue(p Parameter, words []uint16) (Value, error) {
	if len(words) != int(p.Length) {
		return Value{}, fmt.Errorf("parameter %s needs %d registers, got %d", p.Name, p.Length, len(words))
	}

	switch p.Kind {
	case Text:
		return decodeText(p, words)
	case Uint16:
		return numberValue(Uint16, int64(words[0])), nil
	case Int16:
		return numberValue(Int16, int64(int16(words[0]))), nil
	case Uint32:
		n := int64(uint32(words[0])<<16 | uint32(words[1]))
		if p.Unit == unitEpoch && n == 0 {
			return Value{Kind: Uint32}, nil
		}
		return numberValue(Uint32, n), nil
	case Int32:
		return numberValue(Int32, int64(int32(uint32(words[0])<<16|uint32(words[1])))), nil
	default:
		return Value{}, fmt.Errorf("parameter %s has unsupported kind %s", p.Name, p.Kind)
	}
}

// decodeText packs the register words back into bytes, drops NUL padding and
// validates the remainder as UTF-8. The device pads short strings with zero
// bytes anywhere in the field, not only at the end.
func decodeText(p Parameter, words []uint16) (Value, error) {
	buf := make([]byte, 0, len(words)*2)
	for _, w := range words {
		hi, lo := byte(w>>8), byte(w)
		if hi != 0 {
			buf = append(buf, hi)
		}
		if lo != 0 {
			buf = append(buf, lo)
		}
	}
	if !utf8.Valid(buf) {
		return Value{}, fmt.Errorf("parameter %s: %w", p.Name, ErrMalformedText)
	}
	return textValue(string(buf)), nil
}
