package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"netflix-catalog-backend/internal/domains/title"
	"netflix-catalog-backend/internal/shared"
)

type titleService struct {
	repo title.Repository
}

func NewTitleService(repo title.Repository) title.Service {
	return &titleService{repo: repo}
}

// Create persists a new catalog entry with all of its associations in one
// transaction: resolve type and rating, insert the row, then reconcile each
// association kind from the requested name lists.
func (s *titleService) Create(ctx context.Context, req title.CreateTitleRequest) (*title.TitleResponse, error) {
	// Pre-check gives the common duplicate case a clean error; the unique
	// index on show_id still catches a concurrent create.
	_, err := s.repo.GetByShowID(ctx, req.ShowID)
	if err == nil {
		return nil, title.ErrShowIDInUse
	}
	if !errors.Is(err, title.ErrTitleNotFound) {
		return nil, err
	}

	dateAdded, err := parseOptionalDate(req.DateAdded)
	if err != nil {
		return nil, err
	}

	var created *title.Title
	err = s.repo.WithTx(ctx, func(tx title.Repository) error {
		titleType, err := tx.ResolveOrCreateLookup(ctx, title.KindTitleType, req.TitleType)
		if err != nil {
			return err
		}
		rating, err := tx.ResolveOrCreateLookup(ctx, title.KindRating, req.Rating)
		if err != nil {
			return err
		}

		t := &title.Title{
			ShowID:      req.ShowID,
			Title:       req.Title,
			TitleTypeID: titleType.ID,
			RatingID:    rating.ID,
			DateAdded:   dateAdded,
			ReleaseYear: req.ReleaseYear,
			Duration:    req.Duration,
			Seasons:     req.Seasons,
			Description: req.Description,
		}
		if err := tx.Insert(ctx, t); err != nil {
			return err
		}

		for _, set := range associationSets(req.Directors, req.Cast, req.Countries, req.Categories) {
			if err := tx.ReconcileAssociations(ctx, set.kind, t.ID, set.names); err != nil {
				return err
			}
		}

		created, err = tx.GetByShowID(ctx, req.ShowID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.repo.InvalidateTitleCache(ctx)
	return title.NewTitleResponse(created), nil
}

// Replace overwrites every scalar field and makes all four association sets
// match the request exactly, all inside one transaction.
func (s *titleService) Replace(ctx context.Context, showID string, req title.ReplaceTitleRequest) (*title.TitleResponse, error) {
	if req.DateAdded == nil {
		return nil, fmt.Errorf("%w: date_added is required", title.ErrInvalidDateAdded)
	}
	dateAdded, err := parseOptionalDate(req.DateAdded)
	if err != nil {
		return nil, err
	}

	var updated *title.Title
	err = s.repo.WithTx(ctx, func(tx title.Repository) error {
		t, err := tx.GetByShowID(ctx, showID)
		if err != nil {
			return err
		}

		titleType, err := tx.ResolveOrCreateLookup(ctx, title.KindTitleType, req.TitleType)
		if err != nil {
			return err
		}
		rating, err := tx.ResolveOrCreateLookup(ctx, title.KindRating, req.Rating)
		if err != nil {
			return err
		}

		t.Title = req.Title
		t.TitleTypeID = titleType.ID
		t.RatingID = rating.ID
		t.DateAdded = dateAdded
		t.ReleaseYear = req.ReleaseYear
		t.Duration = req.Duration
		t.Seasons = req.Seasons
		t.Description = req.Description

		if err := tx.Update(ctx, t); err != nil {
			return err
		}

		for _, set := range associationSets(req.Directors, req.Cast, req.Countries, req.Categories) {
			if err := tx.ReconcileAssociations(ctx, set.kind, t.ID, set.names); err != nil {
				return err
			}
		}

		updated, err = tx.GetByShowID(ctx, showID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.repo.InvalidateTitleCache(ctx)
	return title.NewTitleResponse(updated), nil
}

// Patch applies partial-update semantics: fields absent from the request
// keep their stored value, explicit null clears the nullable ones, and a
// supplied association list replaces that kind's whole set. show_id is
// immutable.
func (s *titleService) Patch(ctx context.Context, showID string, req title.PatchTitleRequest) (*title.TitleResponse, error) {
	var updated *title.Title
	err := s.repo.WithTx(ctx, func(tx title.Repository) error {
		t, err := tx.GetByShowID(ctx, showID)
		if err != nil {
			return err
		}

		if err := applyScalarPatch(t, req); err != nil {
			return err
		}

		if req.TitleType.Present {
			name, ok := req.TitleType.Get()
			if !ok {
				return fmt.Errorf("%w: title_type", title.ErrFieldNotNullable)
			}
			titleType, err := tx.ResolveOrCreateLookup(ctx, title.KindTitleType, name)
			if err != nil {
				return err
			}
			t.TitleTypeID = titleType.ID
		}
		if req.Rating.Present {
			name, ok := req.Rating.Get()
			if !ok {
				return fmt.Errorf("%w: rating", title.ErrFieldNotNullable)
			}
			rating, err := tx.ResolveOrCreateLookup(ctx, title.KindRating, name)
			if err != nil {
				return err
			}
			t.RatingID = rating.ID
		}

		if err := tx.Update(ctx, t); err != nil {
			return err
		}

		// Only supplied kinds are reconciled; "directors": null empties
		// the set the same way "directors": [] does.
		patchSets := []struct {
			kind  title.AssocKind
			field shared.Optional[[]string]
		}{
			{title.AssocDirector, req.Directors},
			{title.AssocCast, req.Cast},
			{title.AssocCountry, req.Countries},
			{title.AssocCategory, req.Categories},
		}
		for _, set := range patchSets {
			if !set.field.Present {
				continue
			}
			names, _ := set.field.Get()
			if err := tx.ReconcileAssociations(ctx, set.kind, t.ID, names); err != nil {
				return err
			}
		}

		updated, err = tx.GetByShowID(ctx, showID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.repo.InvalidateTitleCache(ctx)
	return title.NewTitleResponse(updated), nil
}

func (s *titleService) GetByShowID(ctx context.Context, showID string) (*title.TitleResponse, error) {
	t, err := s.repo.GetByShowID(ctx, showID)
	if err != nil {
		return nil, err
	}
	return title.NewTitleResponse(t), nil
}

func (s *titleService) List(ctx context.Context, filter title.Filter) ([]title.TitleResponse, error) {
	titles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return title.NewTitleResponses(titles), nil
}

// ========================= HELPERS =========================

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}

	parsed, err := title.ParseDateAdded(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: got %q", title.ErrInvalidDateAdded, *raw)
	}
	return &parsed, nil
}

type associationSet struct {
	kind  title.AssocKind
	names []string
}

func associationSets(directors, cast, countries, categories []string) []associationSet {
	return []associationSet{
		{title.AssocDirector, directors},
		{title.AssocCast, cast},
		{title.AssocCountry, countries},
		{title.AssocCategory, categories},
	}
}

func applyScalarPatch(t *title.Title, req title.PatchTitleRequest) error {
	if req.Title.Present {
		value, ok := req.Title.Get()
		if !ok {
			return fmt.Errorf("%w: title", title.ErrFieldNotNullable)
		}
		t.Title = value
	}
	if req.Description.Present {
		value, ok := req.Description.Get()
		if !ok {
			return fmt.Errorf("%w: description", title.ErrFieldNotNullable)
		}
		t.Description = value
	}
	if req.ReleaseYear.Present {
		value, ok := req.ReleaseYear.Get()
		if !ok {
			return fmt.Errorf("%w: release_year", title.ErrFieldNotNullable)
		}
		t.ReleaseYear = value
	}

	// Nullable fields: explicit null clears.
	if req.Duration.Present {
		if value, ok := req.Duration.Get(); ok {
			t.Duration = &value
		} else {
			t.Duration = nil
		}
	}
	if req.Seasons.Present {
		if value, ok := req.Seasons.Get(); ok {
			t.Seasons = &value
		} else {
			t.Seasons = nil
		}
	}
	if req.DateAdded.Present {
		if raw, ok := req.DateAdded.Get(); ok {
			parsed, err := parseOptionalDate(&raw)
			if err != nil {
				return err
			}
			t.DateAdded = parsed
		} else {
			t.DateAdded = nil
		}
	}

	return nil
}
