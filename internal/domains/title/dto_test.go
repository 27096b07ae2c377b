package title

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTitleRequestValidate(t *testing.T) {
	valid := CreateTitleRequest{
		ShowID:      "s1",
		Title:       "Dark",
		TitleType:   "TV Show",
		Rating:      "TV-MA",
		ReleaseYear: 2017,
	}

	assert.NoError(t, valid.Validate())

	t.Run("missing show_id", func(t *testing.T) {
		r := valid
		r.ShowID = ""
		assert.Error(t, r.Validate())
	})

	t.Run("missing rating", func(t *testing.T) {
		r := valid
		r.Rating = ""
		assert.Error(t, r.Validate())
	})

	t.Run("implausible release year", func(t *testing.T) {
		r := valid
		r.ReleaseYear = 1500
		assert.Error(t, r.Validate())

		r.ReleaseYear = 9999
		assert.Error(t, r.Validate())
	})

	t.Run("empty association name", func(t *testing.T) {
		r := valid
		r.Directors = []string{"Kirsten Johnson", ""}
		assert.Error(t, r.Validate())
	})
}

func TestReplaceTitleRequestValidate(t *testing.T) {
	valid := ReplaceTitleRequest{
		Title:       "Dark",
		TitleType:   "TV Show",
		Rating:      "TV-MA",
		ReleaseYear: 2017,
	}

	assert.NoError(t, valid.Validate())

	r := valid
	r.Title = ""
	assert.Error(t, r.Validate())
}

func TestNewTitleResponse(t *testing.T) {
	added := time.Date(2021, time.September, 25, 0, 0, 0, 0, time.UTC)
	resp := NewTitleResponse(&Title{
		ID:        1,
		ShowID:    "s1",
		TitleType: "Movie",
		Rating:    "PG-13",
		DateAdded: &added,
		Directors: []Lookup{{ID: 7, Name: "Kirsten Johnson"}},
	})

	require.NotNil(t, resp.DateAdded)
	assert.Equal(t, "2021-09-25", *resp.DateAdded)
	require.Len(t, resp.Directors, 1)
	assert.Equal(t, int64(7), resp.Directors[0].ID)

	// empty kinds serialize as [], not null
	assert.NotNil(t, resp.Cast)
	assert.Empty(t, resp.Cast)
}

func TestNewTitleResponseNilDate(t *testing.T) {
	resp := NewTitleResponse(&Title{ID: 1, ShowID: "s1"})
	assert.Nil(t, resp.DateAdded)
}
