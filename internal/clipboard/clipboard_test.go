package clipboard

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream(&buf)

	require.NoError(t, s.WriteAll("hello"))
	assert.Equal(t, "hello\n", buf.String())

	assert.ErrorIs(t, s.WriteAll(""), ErrEmpty)
	assert.Equal(t, "hello\n", buf.String())
}

func TestSystem_RejectsEmpty(t *testing.T) {
	assert.ErrorIs(t, System{}.WriteAll(""), ErrEmpty)
}
