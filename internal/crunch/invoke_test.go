package crunch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCallback records calls made through Invoke.
type MockCallback struct {
	mock.Mock
}

func (m *MockCallback) Int() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockCallback) Record() (*recordStub, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recordStub), args.Error(1)
}

type recordStub struct {
	name string
}

func TestInvoke(t *testing.T) {
	t.Run("calls once and returns result", func(t *testing.T) {
		cb := new(MockCallback)
		cb.On("Int").Return(123)

		res := Invoke(cb.Int)

		cb.AssertNumberOfCalls(t, "Int", 1)
		assert.Equal(t, 123, res)
	})

	t.Run("returns pointer unchanged", func(t *testing.T) {
		want := &recordStub{name: "x"}
		got := Invoke(func() *recordStub { return want })
		assert.Same(t, want, got)
	})

	t.Run("panic propagates", func(t *testing.T) {
		calls := 0
		assert.PanicsWithValue(t, "boom", func() {
			Invoke(func() int {
				calls++
				panic("boom")
			})
		})
		assert.Equal(t, 1, calls)
	})
}

func TestInvokeE(t *testing.T) {
	t.Run("value passes through", func(t *testing.T) {
		want := &recordStub{name: "ok"}
		cb := new(MockCallback)
		cb.On("Record").Return(want, nil)

		got, err := InvokeE(cb.Record)

		assert.NoError(t, err)
		assert.Same(t, want, got)
		cb.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("error passes through unwrapped", func(t *testing.T) {
		cbErr := errors.New("callback failed")
		cb := new(MockCallback)
		cb.On("Record").Return(nil, cbErr)

		got, err := InvokeE(cb.Record)

		assert.Nil(t, got)
		assert.Same(t, cbErr, err)
		cb.AssertNumberOfCalls(t, "Record", 1)
	})
}
