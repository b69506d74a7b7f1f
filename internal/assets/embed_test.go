package assets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplate(t *testing.T) {
	tpl := DefaultTemplate()

	assert.True(t, strings.HasPrefix(tpl, "Analyze this video and provide insights."))
	assert.Equal(t, 1, strings.Count(tpl, "{{ transcript }}"))
	assert.False(t, strings.HasSuffix(tpl, "\n"))
}

func TestDefaultConfigAssetPresent(t *testing.T) {
	b, err := Embedded.ReadFile(DefaultConfigAsset)
	require.NoError(t, err)
	assert.Contains(t, string(b), "config_version: 1")
}
