package mat

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/cvbridge/errors"
)

func requireKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	var e *errors.Error
	require.True(t, stderrors.As(err, &e), "want *errors.Error, got %v", err)
	require.Equal(t, kind, e.Kind, "error: %v", err)
}

func requirePanicKind(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %T is not an error", r)
		requireKind(t, err, kind)
	}()
	fn()
}

// fromValues builds a rows x cols matrix and stores vals in row-major scalar order.
func fromValues(t *testing.T, rows, cols int, typ TypeTag, vals ...float64) *Mat {
	t.Helper()
	m, err := NewMat(rows, cols, typ)
	require.NoError(t, err)
	require.Len(t, vals, rows*cols*typ.Channels())
	for i, v := range vals {
		m.SetValue(v, i)
	}
	return m
}

func values(m *Mat) []float64 {
	n := m.Total() * m.Channels()
	out := make([]float64, n)
	for i := range out {
		out[i] = m.Value(i)
	}
	return out
}
