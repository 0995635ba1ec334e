package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionIDIsUniqueAndPrefixed(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		id := ConnectionID()

		raw, ok := strings.CutPrefix(id, ConnectionIDPrefix)
		require.True(t, ok, id)
		_, err := uuid.Parse(raw)
		assert.NoError(t, err)

		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestMessageIDIsUUID(t *testing.T) {
	_, err := uuid.Parse(MessageID())
	assert.NoError(t, err)
	assert.NotEqual(t, MessageID(), MessageID())
}
