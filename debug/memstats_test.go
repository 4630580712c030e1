package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSS(t *testing.T) {
	rss, err := RSS()
	require.NoError(t, err)
	assert.Positive(t, rss)
}
