package observable

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/delaneyj/observed/signal"
)

// Integer is an observable whole number that may also hold +Inf or -Inf as
// sentinels, which is why it is float64 backed. The underlying value is not
// exposed, so every write goes through the integer check.
type Integer struct {
	value *Value[float64]
}

func NewInteger(initial float64) *Integer {
	mustBeInteger(initial)
	return &Integer{value: New(initial)}
}

func (i *Integer) Get() float64 {
	return i.value.Get()
}

func (i *Integer) Changed() *signal.Signal[Change[float64]] {
	return i.value.Changed()
}

func (i *Integer) String() string {
	return i.value.String()
}

func mustBeInteger(v float64) {
	if math.IsInf(v, 0) {
		return
	}
	if math.IsNaN(v) || v != math.Trunc(v) {
		panic(&TypeMismatchError{Want: "integer", Got: v})
	}
}

// Set panics with a *TypeMismatchError for NaN and finite fractional values.
func (i *Integer) Set(v float64) *Integer {
	mustBeInteger(v)
	i.value.Set(v)
	return i
}

// SetAny accepts any Go integer type or a float64 holding an integer.
func (i *Integer) SetAny(v any) *Integer {
	switch n := v.(type) {
	case int:
		return i.Set(float64(n))
	case int8:
		return i.Set(float64(n))
	case int16:
		return i.Set(float64(n))
	case int32:
		return i.Set(float64(n))
	case int64:
		return i.Set(float64(n))
	case uint:
		return i.Set(float64(n))
	case uint8:
		return i.Set(float64(n))
	case uint16:
		return i.Set(float64(n))
	case uint32:
		return i.Set(float64(n))
	case uint64:
		return i.Set(float64(n))
	case float32:
		return i.Set(float64(n))
	case float64:
		return i.Set(n)
	default:
		panic(&TypeMismatchError{Want: "integer", Got: v})
	}
}

func (i *Integer) Increment() *Integer {
	return i.Set(i.Get() + 1)
}

func (i *Integer) Decrement() *Integer {
	return i.Set(i.Get() - 1)
}

func (i *Integer) IsInfinite() bool {
	return math.IsInf(i.Get(), 0)
}

// Int returns the value as an int64, false when it is infinite.
func (i *Integer) Int() (int64, bool) {
	v := i.Get()
	if math.IsInf(v, 0) {
		return 0, false
	}
	return int64(v), true
}

// MarshalBinary writes a big endian int32. +Inf and -Inf are written as
// math.MaxInt32 and math.MinInt32, so those two finite values do not survive
// a round trip: they decode as infinities.
func (i *Integer) MarshalBinary() ([]byte, error) {
	v := i.Get()
	var n int32
	switch {
	case math.IsInf(v, 1):
		n = math.MaxInt32
	case math.IsInf(v, -1):
		n = math.MinInt32
	case v > math.MaxInt32 || v < math.MinInt32:
		return nil, fmt.Errorf("observable: encode integer %v: %w", v, ErrOutOfRange)
	default:
		n = int32(v)
	}
	return binary.BigEndian.AppendUint32(nil, uint32(n)), nil
}

func (i *Integer) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("observable: decode integer: %w", ErrShortBuffer)
	}
	n := int32(binary.BigEndian.Uint32(data))
	switch n {
	case math.MaxInt32:
		i.Set(math.Inf(1))
	case math.MinInt32:
		i.Set(math.Inf(-1))
	default:
		i.Set(float64(n))
	}
	return nil
}
