package capability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectToken(t *testing.T) {
	cases := map[string]string{
		"L1":          "L1",
		"line 1":      "line_1",
		"a.b/c":       "a_b_c",
		"  spaced  ":  "spaced",
		"":            "_",
		"wild*card>x": "wild_card_x",
	}
	for in, want := range cases {
		assert.Equal(t, want, subjectToken(in), "input %q", in)
	}
}

func TestLoaderMemoizesFailure(t *testing.T) {
	// Nothing listens on this port, so the single connect attempt fails
	// fast and every later load reuses the outcome.
	l := NewLoader("nats://127.0.0.1:1", "railviz.positions", false, nil)

	_, err1 := l.Load(context.Background())
	require.Error(t, err1)

	var le *LoadError
	require.True(t, errors.As(err1, &le))
	assert.Equal(t, "nats://127.0.0.1:1", le.URL)

	_, err2 := l.Load(context.Background())
	assert.Same(t, err1.(*LoadError), err2.(*LoadError), "load attempt must happen once")
}
