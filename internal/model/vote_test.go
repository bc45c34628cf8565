package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteUnmarshal(t *testing.T) {
	t.Run("accepts a number in range", func(t *testing.T) {
		var v Vote
		require.NoError(t, json.Unmarshal([]byte(`7`), &v))
		assert.Equal(t, Vote(7), v)
		assert.False(t, v.IsSkip())
	})

	t.Run("accepts the skip sentinel", func(t *testing.T) {
		var v Vote
		require.NoError(t, json.Unmarshal([]byte(`"skip"`), &v))
		assert.True(t, v.IsSkip())
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, raw := range []string{`0`, `11`, `-3`, `"five"`, `7.5`, `true`, `null`} {
			var v Vote
			assert.ErrorIs(t, json.Unmarshal([]byte(raw), &v), ErrVoteOutOfRange, raw)
		}
	})
}

func TestVoteMarshal(t *testing.T) {
	skip, err := json.Marshal(VoteSkip)
	require.NoError(t, err)
	assert.Equal(t, `"skip"`, string(skip))

	n, err := json.Marshal(Vote(10))
	require.NoError(t, err)
	assert.Equal(t, `10`, string(n))
}
