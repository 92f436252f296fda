package catalog

import (
	"fmt"
	"time"

	"calmora/internal/shared/id"
)

// CustomProgram is a user-curated ordered track list. It is owned exclusively
// by its creator; repositories scope every query by userID and cross-user
// access surfaces as not-found.
type CustomProgram struct {
	id           uint
	sid          string
	userID       uint
	title        string
	trackIDs     []uint
	thumbnailKey string
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

func NewCustomProgram(userID uint, title string, trackIDs []uint) (*CustomProgram, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("title too long (max 200 characters)")
	}
	unique, err := dedupeTrackIDs(trackIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &CustomProgram{
		sid:       id.MustGenerateWithPrefix(id.PrefixCustomProgram, id.DefaultLength),
		userID:    userID,
		title:     title,
		trackIDs:  unique,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func dedupeTrackIDs(trackIDs []uint) ([]uint, error) {
	if trackIDs == nil {
		return []uint{}, nil
	}
	seen := make(map[uint]bool, len(trackIDs))
	out := make([]uint, 0, len(trackIDs))
	for _, tid := range trackIDs {
		if tid == 0 {
			return nil, fmt.Errorf("track ID cannot be zero")
		}
		if seen[tid] {
			continue
		}
		seen[tid] = true
		out = append(out, tid)
	}
	return out, nil
}

type CustomProgramReconstructParams struct {
	ID           uint
	SID          string
	UserID       uint
	Title        string
	TrackIDs     []uint
	ThumbnailKey string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ReconstructCustomProgram(p CustomProgramReconstructParams) (*CustomProgram, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("custom program ID cannot be zero")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	trackIDs := p.TrackIDs
	if trackIDs == nil {
		trackIDs = []uint{}
	}
	return &CustomProgram{
		id:           p.ID,
		sid:          p.SID,
		userID:       p.UserID,
		title:        p.Title,
		trackIDs:     trackIDs,
		thumbnailKey: p.ThumbnailKey,
		version:      p.Version,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}, nil
}

func (cp *CustomProgram) ID() uint             { return cp.id }
func (cp *CustomProgram) SID() string          { return cp.sid }
func (cp *CustomProgram) UserID() uint         { return cp.userID }
func (cp *CustomProgram) Title() string        { return cp.title }
func (cp *CustomProgram) TrackIDs() []uint     { return cp.trackIDs }
func (cp *CustomProgram) ThumbnailKey() string { return cp.thumbnailKey }
func (cp *CustomProgram) Version() int         { return cp.version }
func (cp *CustomProgram) CreatedAt() time.Time { return cp.createdAt }
func (cp *CustomProgram) UpdatedAt() time.Time { return cp.updatedAt }

func (cp *CustomProgram) SetID(newID uint) error {
	if cp.id != 0 {
		return fmt.Errorf("custom program ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("custom program ID cannot be zero")
	}
	cp.id = newID
	return nil
}

func (cp *CustomProgram) Rename(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	cp.title = title
	cp.touch()
	return nil
}

func (cp *CustomProgram) ReplaceTracks(trackIDs []uint) error {
	unique, err := dedupeTrackIDs(trackIDs)
	if err != nil {
		return err
	}
	cp.trackIDs = unique
	cp.touch()
	return nil
}

// SetThumbnailKey sets an explicit thumbnail. When the caller leaves it empty,
// the application layer derives one from the first track's image.
func (cp *CustomProgram) SetThumbnailKey(key string) {
	cp.thumbnailKey = key
	cp.touch()
}

func (cp *CustomProgram) touch() {
	cp.updatedAt = time.Now().UTC()
	cp.version++
}
