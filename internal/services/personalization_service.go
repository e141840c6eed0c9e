// Package services – PersonalizationService
//
// This file implements the PersonalizationService, which stores one
// preference record per user: free-text tags (cuisines, tastes, allergies,
// kitchen inventory, tools) that the recipe assistant uses to tailor answers.
// Save replaces the whole record; Patch touches only the arrays the client
// submits.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pirinku/go-recipe-backend/internal/domain"
	"github.com/pirinku/go-recipe-backend/internal/repo"
)

// PersonalizationService provides preference reads, whole-record upserts, and
// partial patches.
type PersonalizationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxTags caps each tag array. Zero means 50.
	MaxTags int
}

// PreferenceInput carries the full preference set submitted by the client.
type PreferenceInput struct {
	FavoriteCuisines   []string `json:"favorite_cuisines"`
	TastePreferences   []string `json:"taste_preferences"`
	FoodAllergies      []string `json:"food_allergies"`
	WhatsInYourKitchen []string `json:"whats_in_your_kitchen"`
	OtherTools         []string `json:"other_tools"`
}

// Get returns the user's preference record, or ErrPersonalizationNotFound.
func (s *PersonalizationService) Get(ctx context.Context, userID string) (*domain.Personalization, error) {
	p, err := repo.GetPersonalization(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPersonalizationNotFound
		}
		return nil, err
	}
	return p, nil
}

// Has reports whether the user has completed personalization. Used by clients
// to decide whether to show the onboarding flow.
func (s *PersonalizationService) Has(ctx context.Context, userID string) (bool, error) {
	return repo.HasPersonalization(ctx, s.DB, userID)
}

// Save creates or replaces the user's preference record. Tags are trimmed,
// de-duplicated case-insensitively, and capped.
func (s *PersonalizationService) Save(ctx context.Context, userID string, in PreferenceInput) (*domain.Personalization, error) {
	p := &domain.Personalization{
		UserID:             userID,
		FavoriteCuisines:   datatypes.NewJSONSlice(s.cleanTags(in.FavoriteCuisines)),
		TastePreferences:   datatypes.NewJSONSlice(s.cleanTags(in.TastePreferences)),
		FoodAllergies:      datatypes.NewJSONSlice(s.cleanTags(in.FoodAllergies)),
		WhatsInYourKitchen: datatypes.NewJSONSlice(s.cleanTags(in.WhatsInYourKitchen)),
		OtherTools:         datatypes.NewJSONSlice(s.cleanTags(in.OtherTools)),
	}
	return repo.UpsertPersonalization(ctx, s.DB, p)
}

// PreferencePatch carries a partial preference update. Nil fields are left
// untouched; a non-nil empty slice clears that array.
type PreferencePatch struct {
	FavoriteCuisines   *[]string `json:"favorite_cuisines"`
	TastePreferences   *[]string `json:"taste_preferences"`
	FoodAllergies      *[]string `json:"food_allergies"`
	WhatsInYourKitchen *[]string `json:"whats_in_your_kitchen"`
	OtherTools         *[]string `json:"other_tools"`
}

// Patch updates only the tag arrays present in the patch. Returns
// ErrPersonalizationNotFound when the user has no record yet (create one with
// Save first) and ErrNoPreferenceFields when the patch names nothing.
func (s *PersonalizationService) Patch(ctx context.Context, userID string, in PreferencePatch) (*domain.Personalization, error) {
	fields := map[string]any{}
	if in.FavoriteCuisines != nil {
		fields["favorite_cuisines"] = datatypes.NewJSONSlice(s.cleanTags(*in.FavoriteCuisines))
	}
	if in.TastePreferences != nil {
		fields["taste_preferences"] = datatypes.NewJSONSlice(s.cleanTags(*in.TastePreferences))
	}
	if in.FoodAllergies != nil {
		fields["food_allergies"] = datatypes.NewJSONSlice(s.cleanTags(*in.FoodAllergies))
	}
	if in.WhatsInYourKitchen != nil {
		fields["whats_in_your_kitchen"] = datatypes.NewJSONSlice(s.cleanTags(*in.WhatsInYourKitchen))
	}
	if in.OtherTools != nil {
		fields["other_tools"] = datatypes.NewJSONSlice(s.cleanTags(*in.OtherTools))
	}
	if len(fields) == 0 {
		return nil, ErrNoPreferenceFields
	}
	if err := repo.UpdatePersonalization(ctx, s.DB, userID, fields); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPersonalizationNotFound
		}
		return nil, err
	}
	return s.Get(ctx, userID)
}

// cleanTags trims entries, drops blanks and case-insensitive duplicates, and
// caps the result.
func (s *PersonalizationService) cleanTags(tags []string) []string {
	max := s.MaxTags
	if max <= 0 {
		max = 50
	}
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
		if len(out) == max {
			break
		}
	}
	return out
}
