package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalUnmarshal(t *testing.T) {
	type payload struct {
		Title    Optional[string] `json:"title"`
		Duration Optional[int]    `json:"duration"`
	}

	t.Run("absent field", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

		assert.False(t, p.Title.Present)
		assert.False(t, p.Title.Null)
		_, ok := p.Title.Get()
		assert.False(t, ok)
	})

	t.Run("explicit null", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"duration": null}`), &p))

		assert.True(t, p.Duration.Present)
		assert.True(t, p.Duration.Null)
		_, ok := p.Duration.Get()
		assert.False(t, ok)
	})

	t.Run("value", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"title": "Dark", "duration": 60}`), &p))

		assert.True(t, p.Title.Present)
		assert.False(t, p.Title.Null)

		v, ok := p.Title.Get()
		assert.True(t, ok)
		assert.Equal(t, "Dark", v)

		d, ok := p.Duration.Get()
		assert.True(t, ok)
		assert.Equal(t, 60, d)
	})

	t.Run("zero value is still present", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"duration": 0}`), &p))

		d, ok := p.Duration.Get()
		assert.True(t, ok)
		assert.Equal(t, 0, d)
	})
}

func TestOptionalMarshal(t *testing.T) {
	v := Optional[string]{Value: "Movie", Present: true}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `"Movie"`, string(data))

	absent := Optional[string]{}
	data, err = json.Marshal(absent)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}
