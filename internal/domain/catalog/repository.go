package catalog

import "context"

// CategoryRepository persists categories. Not-found returns (nil, nil).
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	GetBySID(ctx context.Context, sid string) (*Category, error)
	ListActive(ctx context.Context) ([]*Category, error)
}

// TrackRepository persists tracks. Search matches a normalized query against
// title and description.
type TrackRepository interface {
	Create(ctx context.Context, track *Track) error
	Update(ctx context.Context, track *Track) error
	GetByID(ctx context.Context, id uint) (*Track, error)
	GetBySID(ctx context.Context, sid string) (*Track, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Track, error)
	ListActive(ctx context.Context, categoryID uint, offset, limit int) ([]*Track, int64, error)
	Search(ctx context.Context, query string, offset, limit int) ([]*Track, int64, error)
}

// ProgramRepository persists curated programs.
type ProgramRepository interface {
	Create(ctx context.Context, program *Program) error
	Update(ctx context.Context, program *Program) error
	GetByID(ctx context.Context, id uint) (*Program, error)
	GetBySID(ctx context.Context, sid string) (*Program, error)
	ListActive(ctx context.Context, categoryID uint, offset, limit int) ([]*Program, int64, error)
}

// CustomProgramRepository persists user-curated programs. Every read is scoped
// by userID so cross-user access is indistinguishable from not-found.
type CustomProgramRepository interface {
	Create(ctx context.Context, cp *CustomProgram) error
	Update(ctx context.Context, cp *CustomProgram) error
	Delete(ctx context.Context, userID, id uint) error
	GetBySIDForUser(ctx context.Context, userID uint, sid string) (*CustomProgram, error)
	ListByUserID(ctx context.Context, userID uint) ([]*CustomProgram, error)
}

// FavoriteRepository persists track favorites. Add relies on a unique
// (user_id, track_id) index; a duplicate insert is reported as already-exists
// so callers treat it as an idempotent success.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, trackID uint) (created bool, err error)
	Remove(ctx context.Context, userID, trackID uint) error
	ListTrackIDs(ctx context.Context, userID uint) ([]uint, error)
	Exists(ctx context.Context, userID, trackID uint) (bool, error)
}
