package catalog

import (
	"fmt"
	"time"

	"calmora/internal/domain/subscription"
	"calmora/internal/shared/id"
)

// ProgramItem places a track at a position inside a program.
type ProgramItem struct {
	TrackID uint `json:"track_id"`
	Order   int  `json:"order"`
}

// Program is a curated, ordered sequence of tracks with a single access tier.
// A track appears at most once per program.
type Program struct {
	id          uint
	sid         string
	categoryID  uint
	title       string
	description string
	imageKey    string
	contentTier subscription.ContentTier
	items       []ProgramItem
	active      bool
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

func NewProgram(categoryID uint, title string, contentTier subscription.ContentTier,
	items []ProgramItem) (*Program, error) {

	if categoryID == 0 {
		return nil, fmt.Errorf("category ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("program title is required")
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("program title too long (max 200 characters)")
	}
	if !contentTier.IsValid() {
		return nil, fmt.Errorf("invalid content tier: %s", contentTier)
	}
	normalized, err := normalizeItems(items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Program{
		sid:         id.MustGenerateWithPrefix(id.PrefixProgram, id.DefaultLength),
		categoryID:  categoryID,
		title:       title,
		contentTier: contentTier,
		items:       normalized,
		active:      true,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// normalizeItems sorts items by order, reassigns contiguous order values and
// rejects duplicate tracks.
func normalizeItems(items []ProgramItem) ([]ProgramItem, error) {
	if items == nil {
		return []ProgramItem{}, nil
	}
	seen := make(map[uint]bool, len(items))
	for _, it := range items {
		if it.TrackID == 0 {
			return nil, fmt.Errorf("track ID cannot be zero")
		}
		if seen[it.TrackID] {
			return nil, fmt.Errorf("duplicate track %d in program", it.TrackID)
		}
		seen[it.TrackID] = true
	}

	out := make([]ProgramItem, len(items))
	copy(out, items)
	// insertion sort keeps the declared order stable for equal keys
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Order < out[j-1].Order; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	for i := range out {
		out[i].Order = i + 1
	}
	return out, nil
}

type ProgramReconstructParams struct {
	ID          uint
	SID         string
	CategoryID  uint
	Title       string
	Description string
	ImageKey    string
	ContentTier subscription.ContentTier
	Items       []ProgramItem
	Active      bool
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func ReconstructProgram(p ProgramReconstructParams) (*Program, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("program ID cannot be zero")
	}
	if !p.ContentTier.IsValid() {
		return nil, fmt.Errorf("invalid content tier: %s", p.ContentTier)
	}
	items := p.Items
	if items == nil {
		items = []ProgramItem{}
	}
	return &Program{
		id:          p.ID,
		sid:         p.SID,
		categoryID:  p.CategoryID,
		title:       p.Title,
		description: p.Description,
		imageKey:    p.ImageKey,
		contentTier: p.ContentTier,
		items:       items,
		active:      p.Active,
		version:     p.Version,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}, nil
}

func (p *Program) ID() uint                              { return p.id }
func (p *Program) SID() string                           { return p.sid }
func (p *Program) CategoryID() uint                      { return p.categoryID }
func (p *Program) Title() string                         { return p.title }
func (p *Program) Description() string                   { return p.description }
func (p *Program) ImageKey() string                      { return p.imageKey }
func (p *Program) ContentTier() subscription.ContentTier { return p.contentTier }
func (p *Program) Items() []ProgramItem                  { return p.items }
func (p *Program) IsActive() bool                        { return p.active }
func (p *Program) Version() int                          { return p.version }
func (p *Program) CreatedAt() time.Time                  { return p.createdAt }
func (p *Program) UpdatedAt() time.Time                  { return p.updatedAt }

// TotalTracks returns the number of tracks in the program.
func (p *Program) TotalTracks() int {
	return len(p.items)
}

// ContainsTrack reports whether trackID belongs to this program.
func (p *Program) ContainsTrack(trackID uint) bool {
	for _, it := range p.items {
		if it.TrackID == trackID {
			return true
		}
	}
	return false
}

// TrackIDs returns the program's track IDs in playback order.
func (p *Program) TrackIDs() []uint {
	ids := make([]uint, 0, len(p.items))
	for _, it := range p.items {
		ids = append(ids, it.TrackID)
	}
	return ids
}

func (p *Program) SetID(newID uint) error {
	if p.id != 0 {
		return fmt.Errorf("program ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("program ID cannot be zero")
	}
	p.id = newID
	return nil
}

func (p *Program) Update(title, description string, categoryID uint) error {
	if title == "" {
		return fmt.Errorf("program title is required")
	}
	if categoryID == 0 {
		return fmt.Errorf("category ID is required")
	}
	p.title = title
	p.description = description
	p.categoryID = categoryID
	p.touch()
	return nil
}

// ReplaceItems swaps the track list, re-validating uniqueness and order.
func (p *Program) ReplaceItems(items []ProgramItem) error {
	normalized, err := normalizeItems(items)
	if err != nil {
		return err
	}
	p.items = normalized
	p.touch()
	return nil
}

func (p *Program) SetContentTier(tier subscription.ContentTier) error {
	if !tier.IsValid() {
		return fmt.Errorf("invalid content tier: %s", tier)
	}
	p.contentTier = tier
	p.touch()
	return nil
}

func (p *Program) SetImageKey(key string) {
	p.imageKey = key
	p.touch()
}

func (p *Program) Deactivate() {
	if !p.active {
		return
	}
	p.active = false
	p.touch()
}

func (p *Program) touch() {
	p.updatedAt = time.Now().UTC()
	p.version++
}
