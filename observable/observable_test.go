package observable_test

import (
	"math"
	"testing"

	"github.com/delaneyj/observed/frame"
	"github.com/delaneyj/observed/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetEqualIsNoop(t *testing.T) {
	b := observable.NewBoolean(false)
	var changes []observable.Change[bool]
	b.Changed().Add(func(c observable.Change[bool]) { changes = append(changes, c) })

	b.Set(false)
	assert.Empty(t, changes)

	b.Set(true)
	assert.Equal(t, []observable.Change[bool]{{New: true, Old: false}}, changes)
}

func TestDispatchIsSynchronous(t *testing.T) {
	v := observable.New("a")
	seen := ""
	v.Changed().Add(func(c observable.Change[string]) { seen = c.New })
	v.Set("b")
	assert.Equal(t, "b", seen)
	assert.Equal(t, "b", v.Get())
	assert.Equal(t, "b", v.String())
}

func TestInvert(t *testing.T) {
	b := observable.NewBoolean(true)
	assert.False(t, b.Invert().Get())
	assert.True(t, b.Invert().Get())
}

func TestSetAnyTypeMismatchPanics(t *testing.T) {
	v := observable.New(1)
	v.SetAny(2)
	assert.Equal(t, 2, v.Get())

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, observable.ErrTypeMismatch)
	}()
	v.SetAny("two")
}

func TestIntegerRejectsFractions(t *testing.T) {
	i := observable.NewInteger(0)
	assert.Panics(t, func() { i.Set(1.5) })
	assert.Panics(t, func() { i.Set(math.NaN()) })
	assert.Panics(t, func() { i.SetAny("3") })
	assert.Panics(t, func() { observable.NewInteger(0.25) })
	assert.NotPanics(t, func() { i.Set(math.Inf(1)) })
	assert.NotPanics(t, func() { i.Set(math.Inf(-1)) })
	assert.NotPanics(t, func() { i.SetAny(int32(4)) })
	assert.Equal(t, 4.0, i.Get())
}

func TestIntegerWritesAreChecked(t *testing.T) {
	i := observable.NewInteger(3)
	var seen []observable.Change[float64]
	i.Changed().Add(func(c observable.Change[float64]) { seen = append(seen, c) })

	i.Set(3)
	assert.Panics(t, func() { i.Set(0.5) })
	i.Set(math.Inf(1))

	assert.Equal(t, []observable.Change[float64]{{New: math.Inf(1), Old: 3}}, seen)
	assert.Equal(t, "+Inf", i.String())
}

func TestIncrementDecrement(t *testing.T) {
	i := observable.NewInteger(1)
	calls := 0
	i.Changed().Add(func(observable.Change[float64]) { calls++ })

	i.Increment().Increment().Decrement()
	n, ok := i.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 3, calls)

	i.Set(math.Inf(1))
	assert.True(t, i.IsInfinite())
	_, ok = i.Int()
	assert.False(t, ok)
	i.Increment()
	assert.Equal(t, 4, calls)
}

func TestIntegerBinarySentinels(t *testing.T) {
	for _, v := range []float64{0, -7, 123456, math.Inf(1), math.Inf(-1)} {
		data, err := observable.NewInteger(v).MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, 4)

		out := observable.NewInteger(0)
		require.NoError(t, out.UnmarshalBinary(data))
		assert.Equal(t, v, out.Get())
	}

	data, err := observable.NewInteger(math.Inf(1)).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7f, 0xff, 0xff, 0xff}, data)
}

func TestIntegerSentinelCollision(t *testing.T) {
	data, err := observable.NewInteger(math.MaxInt32).MarshalBinary()
	require.NoError(t, err)

	out := observable.NewInteger(0)
	require.NoError(t, out.UnmarshalBinary(data))
	assert.True(t, math.IsInf(out.Get(), 1))
}

func TestIntegerBinaryErrors(t *testing.T) {
	_, err := observable.NewInteger(1 << 40).MarshalBinary()
	assert.ErrorIs(t, err, observable.ErrOutOfRange)
	assert.ErrorIs(t, observable.NewInteger(0).UnmarshalBinary([]byte{1}), observable.ErrShortBuffer)
}

func TestBooleanBinary(t *testing.T) {
	b := observable.NewBoolean(true)
	data, err := b.MarshalBinary()
	require.NoError(t, err)

	out := observable.NewBoolean(false)
	require.NoError(t, out.UnmarshalBinary(data))
	assert.True(t, out.Get())
	assert.ErrorIs(t, out.UnmarshalBinary([]byte{2}), observable.ErrOutOfRange)
	assert.ErrorIs(t, out.UnmarshalBinary(nil), observable.ErrShortBuffer)
}

func TestDebouncedPublishesOncePerFrame(t *testing.T) {
	lp := frame.NewLoop()
	src := observable.New(0)
	d := observable.NewDebounced(src, lp)
	var changes []observable.Change[int]
	d.Changed().Add(func(c observable.Change[int]) { changes = append(changes, c) })

	src.Set(1)
	src.Set(2)
	src.Set(3)
	assert.Equal(t, 0, d.Get())

	lp.Tick()
	assert.Equal(t, []observable.Change[int]{{New: 3, Old: 0}}, changes)

	src.Set(4)
	src.Set(3)
	lp.Tick()
	assert.Len(t, changes, 1)

	d.Dispose()
	src.Set(9)
	lp.Tick()
	assert.Equal(t, 3, d.Get())
}
