package observable

import "fmt"

type Boolean struct {
	*Value[bool]
}

func NewBoolean(initial bool) *Boolean {
	return &Boolean{Value: New(initial)}
}

func (b *Boolean) Set(v bool) *Boolean {
	b.Value.Set(v)
	return b
}

func (b *Boolean) Invert() *Boolean {
	return b.Set(!b.Get())
}

func (b *Boolean) MarshalBinary() ([]byte, error) {
	if b.Get() {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

// UnmarshalBinary goes through Set, so subscribers see the decoded value.
func (b *Boolean) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("observable: decode boolean: %w", ErrShortBuffer)
	}
	switch data[0] {
	case 0:
		b.Set(false)
	case 1:
		b.Set(true)
	default:
		return fmt.Errorf("observable: decode boolean byte %d: %w", data[0], ErrOutOfRange)
	}
	return nil
}
