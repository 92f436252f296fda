// Package dto defines presentation-layer data structures for the catalog.
package dto

import (
	"time"

	"calmora/internal/domain/catalog"
)

// CategoryDTO is the public representation of a category.
type CategoryDTO struct {
	SID          string `json:"sid"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ImageKey     string `json:"image_key,omitempty"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

// TrackDTO is the public representation of a track. DescriptionHTML is the
// sanitized rendering of the stored markdown and is only populated on detail
// reads. Locked tells the client to show the paywall instead of a play
// button.
type TrackDTO struct {
	SID             string `json:"sid"`
	CategorySID     string `json:"category_sid,omitempty"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DescriptionHTML string `json:"description_html,omitempty"`
	ImageKey        string `json:"image_key,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
	ContentTier     string `json:"content_tier"`
	Locked          bool   `json:"locked"`
	Favorite        bool   `json:"favorite,omitempty"`
}

// ProgramItemDTO is one ordered entry of a curated program.
type ProgramItemDTO struct {
	Position int       `json:"position"`
	Track    *TrackDTO `json:"track,omitempty"`
	TrackSID string    `json:"track_sid,omitempty"`
}

// ProgramDTO is the public representation of a curated program.
type ProgramDTO struct {
	SID         string            `json:"sid"`
	CategorySID string            `json:"category_sid,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	ImageKey    string            `json:"image_key,omitempty"`
	ContentTier string            `json:"content_tier"`
	Locked      bool              `json:"locked"`
	TotalTracks int               `json:"total_tracks"`
	Items       []*ProgramItemDTO `json:"items,omitempty"`
}

// CustomProgramDTO is a user-curated playlist.
type CustomProgramDTO struct {
	SID          string    `json:"sid"`
	Title        string    `json:"title"`
	TrackSIDs    []string  `json:"track_sids"`
	ThumbnailKey string    `json:"thumbnail_key,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StreamURLDTO carries a signed, expiring media URL.
type StreamURLDTO struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

// ToCategoryDTO converts a Category to its public representation.
func ToCategoryDTO(c *catalog.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		SID:          c.SID(),
		Name:         c.Name(),
		Description:  c.Description(),
		ImageKey:     c.ImageKey(),
		DisplayOrder: c.DisplayOrder(),
		Active:       c.IsActive(),
	}
}

// ToCategoryDTOList converts categories to DTOs, skipping nil entries.
func ToCategoryDTOList(cs []*catalog.Category) []*CategoryDTO {
	dtos := make([]*CategoryDTO, 0, len(cs))
	for _, c := range cs {
		if c != nil {
			dtos = append(dtos, ToCategoryDTO(c))
		}
	}
	return dtos
}

// ToTrackDTO converts a Track to its list representation. locked reflects the
// caller's entitlement at conversion time.
func ToTrackDTO(t *catalog.Track, locked bool) *TrackDTO {
	if t == nil {
		return nil
	}
	return &TrackDTO{
		SID:             t.SID(),
		Title:           t.Title(),
		ImageKey:        t.ImageKey(),
		DurationSeconds: t.DurationSeconds(),
		ContentTier:     string(t.ContentTier()),
		Locked:          locked,
	}
}

// ToCustomProgramDTO converts a CustomProgram, resolving track IDs to SIDs
// through the provided lookup. Unresolvable IDs are dropped.
func ToCustomProgramDTO(cp *catalog.CustomProgram, sidByID map[uint]string) *CustomProgramDTO {
	if cp == nil {
		return nil
	}
	sids := make([]string, 0, len(cp.TrackIDs()))
	for _, trackID := range cp.TrackIDs() {
		if sid, ok := sidByID[trackID]; ok {
			sids = append(sids, sid)
		}
	}
	return &CustomProgramDTO{
		SID:          cp.SID(),
		Title:        cp.Title(),
		TrackSIDs:    sids,
		ThumbnailKey: cp.ThumbnailKey(),
		UpdatedAt:    cp.UpdatedAt(),
	}
}
