package title

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateAdded(t *testing.T) {
	t.Run("long month form", func(t *testing.T) {
		got, err := ParseDateAdded("September 25, 2021")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2021, time.September, 25, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("single digit day", func(t *testing.T) {
		got, err := ParseDateAdded("January 1, 2020")
		require.NoError(t, err)
		assert.Equal(t, 2020, got.Year())
		assert.Equal(t, 1, got.Day())
	})

	t.Run("rejects ISO dates", func(t *testing.T) {
		_, err := ParseDateAdded("2021-09-25")
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseDateAdded("not a date")
		assert.Error(t, err)
	})
}

func TestDiffAssociations(t *testing.T) {
	current := []Lookup{
		{ID: 1, Name: "United States"},
		{ID: 2, Name: "India"},
	}

	t.Run("no change", func(t *testing.T) {
		toAdd, toRemove := DiffAssociations([]string{"United States", "India"}, current)
		assert.Empty(t, toAdd)
		assert.Empty(t, toRemove)
	})

	t.Run("additions and removals", func(t *testing.T) {
		toAdd, toRemove := DiffAssociations([]string{"India", "Japan"}, current)
		assert.Equal(t, []string{"Japan"}, toAdd)
		require.Len(t, toRemove, 1)
		assert.Equal(t, "United States", toRemove[0].Name)
	})

	t.Run("empty desired removes everything", func(t *testing.T) {
		toAdd, toRemove := DiffAssociations(nil, current)
		assert.Empty(t, toAdd)
		assert.Len(t, toRemove, 2)
	})

	t.Run("empty current adds everything", func(t *testing.T) {
		toAdd, toRemove := DiffAssociations([]string{"Japan", "Brazil"}, nil)
		assert.Equal(t, []string{"Japan", "Brazil"}, toAdd)
		assert.Empty(t, toRemove)
	})

	t.Run("duplicate desired names collapse", func(t *testing.T) {
		toAdd, toRemove := DiffAssociations([]string{"Japan", "Japan", "India"}, current)
		assert.Equal(t, []string{"Japan"}, toAdd)
		require.Len(t, toRemove, 1)
		assert.Equal(t, "United States", toRemove[0].Name)
	})

	t.Run("addition order follows desired order", func(t *testing.T) {
		toAdd, _ := DiffAssociations([]string{"C", "A", "B"}, nil)
		assert.Equal(t, []string{"C", "A", "B"}, toAdd)
	})
}

func TestAssocKindLookupKind(t *testing.T) {
	assert.Equal(t, KindName, AssocDirector.LookupKind())
	assert.Equal(t, KindName, AssocCast.LookupKind())
	assert.Equal(t, KindCountry, AssocCountry.LookupKind())
	assert.Equal(t, KindCategory, AssocCategory.LookupKind())
}
