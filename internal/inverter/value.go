package inverter

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies how the raw register words of a parameter are interpreted.
type Kind int

const (
	Text Kind = iota
	Uint16
	Int16
	Uint32
	Int32
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Uint16:
		return "uint16"
	case Int16:
		return "int16"
	case Uint32:
		return "uint32"
	case Int32:
		return "int32"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// unitEpoch marks 32-bit values holding epoch seconds. The codec nulls a zero
// epoch; everything else about units is for downstream consumers only.
const unitEpoch = "epoch"

// Value is a decoded register value. Present is false until a successful read,
// and stays false for a zero epoch timestamp. Numeric kinds are stored
// sign-extended in Number; Text kinds use Str.
type Value struct {
	Kind    Kind
	Present bool
	Str     string
	Number  int64
}

func textValue(s string) Value {
	return Value{Kind: Text, Present: true, Str: s}
}

func numberValue(kind Kind, n int64) Value {
	return Value{Kind: kind, Present: true, Number: n}
}

// Reading is one parameter paired with its decoded value.
type Reading struct {
	Parameter
	Value Value
}

// DisplayValue renders the reading for logs. Gain-scaled values render as a
// decimal fraction, epoch timestamps as "<secs>, <local RFC-2822 time>".
func (r Reading) DisplayValue() string {
	if !r.Value.Present {
		return "none"
	}

	switch r.Value.Kind {
	case Text:
		return r.Value.Str
	default:
		if r.Gain != 1 {
			return strconv.FormatFloat(float64(r.Value.Number)/float64(r.Gain), 'f', -1, 64)
		}
		if r.Value.Kind == Uint32 && r.Unit == unitEpoch {
			return formatEpoch(r.Value.Number)
		}
		return strconv.FormatInt(r.Value.Number, 10)
	}
}

func formatEpoch(secs int64) string {
	if secs < 0 {
		return "timestamp conversion error"
	}
	t := time.Unix(secs, 0).Local()
	return fmt.Sprintf("%d, %s", secs, t.Format(time.RFC1123Z))
}

// SinkValue converts the reading to the value written to the telemetry sink:
// float64 for gain-scaled numerics, int64 for gain-1 numerics, string for
// text. Returns nil when the value is absent.
func (r Reading) SinkValue() interface{} {
	if !r.Value.Present {
		return nil
	}

	switch r.Value.Kind {
	case Text:
		return r.Value.Str
	default:
		if r.Gain != 1 {
			return float64(r.Value.Number) / float64(r.Gain)
		}
		return r.Value.Number
	}
}
