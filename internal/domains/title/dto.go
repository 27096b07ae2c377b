package title

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"netflix-catalog-backend/internal/shared"
)

// ========================================
// REQUEST DTOs
// ========================================

// CreateTitleRequest is the body of POST /netflix/titles/.
type CreateTitleRequest struct {
	ShowID      string   `json:"show_id"`
	Title       string   `json:"title"`
	TitleType   string   `json:"title_type"`
	Rating      string   `json:"rating"`
	ReleaseYear int      `json:"release_year"`
	Duration    *int     `json:"duration"`
	Seasons     *int     `json:"seasons"`
	Description string   `json:"description"`
	DateAdded   *string  `json:"date_added"`
	Directors   []string `json:"directors"`
	Cast        []string `json:"cast"`
	Countries   []string `json:"countries"`
	Categories  []string `json:"categories"`
}

func (r CreateTitleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ShowID,
			validation.Required.Error("show_id is required"),
			validation.Length(1, 64),
		),
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500),
		),
		validation.Field(&r.TitleType,
			validation.Required.Error("title_type is required"),
		),
		validation.Field(&r.Rating,
			validation.Required.Error("rating is required"),
		),
		validation.Field(&r.ReleaseYear,
			validation.Required.Error("release_year is required"),
			validation.Min(1850),
			validation.Max(2200),
		),
		validation.Field(&r.Directors, validation.Each(validation.Required)),
		validation.Field(&r.Cast, validation.Each(validation.Required)),
		validation.Field(&r.Countries, validation.Each(validation.Required)),
		validation.Field(&r.Categories, validation.Each(validation.Required)),
	)
}

// ReplaceTitleRequest is the body of PUT /netflix/titles/{show_id}. show_id
// comes from the path and cannot change.
type ReplaceTitleRequest struct {
	Title       string   `json:"title"`
	TitleType   string   `json:"title_type"`
	Rating      string   `json:"rating"`
	ReleaseYear int      `json:"release_year"`
	Duration    *int     `json:"duration"`
	Seasons     *int     `json:"seasons"`
	Description string   `json:"description"`
	DateAdded   *string  `json:"date_added"`
	Directors   []string `json:"directors"`
	Cast        []string `json:"cast"`
	Countries   []string `json:"countries"`
	Categories  []string `json:"categories"`
}

func (r ReplaceTitleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500),
		),
		validation.Field(&r.TitleType,
			validation.Required.Error("title_type is required"),
		),
		validation.Field(&r.Rating,
			validation.Required.Error("rating is required"),
		),
		validation.Field(&r.ReleaseYear,
			validation.Required.Error("release_year is required"),
			validation.Min(1850),
			validation.Max(2200),
		),
	)
}

// PatchTitleRequest is the body of PATCH /netflix/titles/{show_id}. Fields
// absent from the body keep their stored value; an explicit null clears the
// nullable ones (duration, seasons, date_added). Association lists replace
// the whole set for that kind when supplied.
type PatchTitleRequest struct {
	Title       shared.Optional[string]   `json:"title"`
	TitleType   shared.Optional[string]   `json:"title_type"`
	Rating      shared.Optional[string]   `json:"rating"`
	ReleaseYear shared.Optional[int]      `json:"release_year"`
	Duration    shared.Optional[int]      `json:"duration"`
	Seasons     shared.Optional[int]      `json:"seasons"`
	Description shared.Optional[string]   `json:"description"`
	DateAdded   shared.Optional[string]   `json:"date_added"`
	Directors   shared.Optional[[]string] `json:"directors"`
	Cast        shared.Optional[[]string] `json:"cast"`
	Countries   shared.Optional[[]string] `json:"countries"`
	Categories  shared.Optional[[]string] `json:"categories"`
}

// ========================================
// RESPONSE DTOs
// ========================================

type LookupResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TitleResponse struct {
	ID          int64            `json:"id"`
	ShowID      string           `json:"show_id"`
	Title       string           `json:"title"`
	TitleType   string           `json:"title_type"`
	Rating      string           `json:"rating"`
	DateAdded   *string          `json:"date_added"`
	ReleaseYear int              `json:"release_year"`
	Duration    *int             `json:"duration"`
	Seasons     *int             `json:"seasons"`
	Description string           `json:"description"`
	Directors   []LookupResponse `json:"directors"`
	Cast        []LookupResponse `json:"cast"`
	Countries   []LookupResponse `json:"countries"`
	Categories  []LookupResponse `json:"categories"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func NewTitleResponse(t *Title) *TitleResponse {
	resp := &TitleResponse{
		ID:          t.ID,
		ShowID:      t.ShowID,
		Title:       t.Title,
		TitleType:   t.TitleType,
		Rating:      t.Rating,
		ReleaseYear: t.ReleaseYear,
		Duration:    t.Duration,
		Seasons:     t.Seasons,
		Description: t.Description,
		Directors:   newLookupResponses(t.Directors),
		Cast:        newLookupResponses(t.Cast),
		Countries:   newLookupResponses(t.Countries),
		Categories:  newLookupResponses(t.Categories),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if t.DateAdded != nil {
		formatted := t.DateAdded.Format("2006-01-02")
		resp.DateAdded = &formatted
	}

	return resp
}

func NewTitleResponses(titles []Title) []TitleResponse {
	out := make([]TitleResponse, 0, len(titles))
	for i := range titles {
		out = append(out, *NewTitleResponse(&titles[i]))
	}
	return out
}

func newLookupResponses(lookups []Lookup) []LookupResponse {
	out := make([]LookupResponse, 0, len(lookups))
	for _, l := range lookups {
		out = append(out, LookupResponse{ID: l.ID, Name: l.Name})
	}
	return out
}
