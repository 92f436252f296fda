package catalog

import (
	"fmt"
	"time"

	"calmora/internal/domain/subscription"
	"calmora/internal/shared/id"
)

// Track is a single playable audio item. Description is authored as markdown
// and rendered to sanitized HTML at the API boundary.
type Track struct {
	id              uint
	sid             string
	categoryID      uint
	title           string
	description     string
	audioKey        string
	imageKey        string
	durationSeconds int
	contentTier     subscription.ContentTier
	active          bool
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

func NewTrack(categoryID uint, title, audioKey string, durationSeconds int,
	contentTier subscription.ContentTier) (*Track, error) {

	if categoryID == 0 {
		return nil, fmt.Errorf("category ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("track title is required")
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("track title too long (max 200 characters)")
	}
	if audioKey == "" {
		return nil, fmt.Errorf("audio key is required")
	}
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("duration must be greater than 0")
	}
	if !contentTier.IsValid() {
		return nil, fmt.Errorf("invalid content tier: %s", contentTier)
	}

	now := time.Now().UTC()
	return &Track{
		sid:             id.MustGenerateWithPrefix(id.PrefixTrack, id.DefaultLength),
		categoryID:      categoryID,
		title:           title,
		audioKey:        audioKey,
		durationSeconds: durationSeconds,
		contentTier:     contentTier,
		active:          true,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

type TrackReconstructParams struct {
	ID              uint
	SID             string
	CategoryID      uint
	Title           string
	Description     string
	AudioKey        string
	ImageKey        string
	DurationSeconds int
	ContentTier     subscription.ContentTier
	Active          bool
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ReconstructTrack(p TrackReconstructParams) (*Track, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("track ID cannot be zero")
	}
	if !p.ContentTier.IsValid() {
		return nil, fmt.Errorf("invalid content tier: %s", p.ContentTier)
	}
	return &Track{
		id:              p.ID,
		sid:             p.SID,
		categoryID:      p.CategoryID,
		title:           p.Title,
		description:     p.Description,
		audioKey:        p.AudioKey,
		imageKey:        p.ImageKey,
		durationSeconds: p.DurationSeconds,
		contentTier:     p.ContentTier,
		active:          p.Active,
		version:         p.Version,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}, nil
}

func (t *Track) ID() uint                              { return t.id }
func (t *Track) SID() string                           { return t.sid }
func (t *Track) CategoryID() uint                      { return t.categoryID }
func (t *Track) Title() string                         { return t.title }
func (t *Track) Description() string                   { return t.description }
func (t *Track) AudioKey() string                      { return t.audioKey }
func (t *Track) ImageKey() string                      { return t.imageKey }
func (t *Track) DurationSeconds() int                  { return t.durationSeconds }
func (t *Track) ContentTier() subscription.ContentTier { return t.contentTier }
func (t *Track) IsActive() bool                        { return t.active }
func (t *Track) Version() int                          { return t.version }
func (t *Track) CreatedAt() time.Time                  { return t.createdAt }
func (t *Track) UpdatedAt() time.Time                  { return t.updatedAt }

func (t *Track) SetID(newID uint) error {
	if t.id != 0 {
		return fmt.Errorf("track ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("track ID cannot be zero")
	}
	t.id = newID
	return nil
}

func (t *Track) Update(title, description string, categoryID uint) error {
	if title == "" {
		return fmt.Errorf("track title is required")
	}
	if categoryID == 0 {
		return fmt.Errorf("category ID is required")
	}
	t.title = title
	t.description = description
	t.categoryID = categoryID
	t.touch()
	return nil
}

func (t *Track) SetContentTier(tier subscription.ContentTier) error {
	if !tier.IsValid() {
		return fmt.Errorf("invalid content tier: %s", tier)
	}
	t.contentTier = tier
	t.touch()
	return nil
}

func (t *Track) SetMedia(audioKey, imageKey string, durationSeconds int) error {
	if audioKey == "" {
		return fmt.Errorf("audio key is required")
	}
	if durationSeconds <= 0 {
		return fmt.Errorf("duration must be greater than 0")
	}
	t.audioKey = audioKey
	t.imageKey = imageKey
	t.durationSeconds = durationSeconds
	t.touch()
	return nil
}

func (t *Track) Deactivate() {
	if !t.active {
		return
	}
	t.active = false
	t.touch()
}

func (t *Track) touch() {
	t.updatedAt = time.Now().UTC()
	t.version++
}
