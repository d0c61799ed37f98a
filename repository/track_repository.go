package repository

import (
	"context"
	"errors"
	"fmt"

	"discogsapi/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrTrackNotFound is returned when a well-formed identifier matches no track.
	ErrTrackNotFound = errors.New("track not found")
	// ErrInvalidID is returned when an identifier is not in the store's format.
	ErrInvalidID = errors.New("invalid track id")
)

// TrackFilter narrows a listing. Each non-empty field is an exact-match
// equality constraint; all constraints are combined with AND.
type TrackFilter struct {
	Year   string
	Genre  string
	Artist string
}

// TrackRepository defines the record store operations for tracks.
type TrackRepository interface {
	CreateTrack(ctx context.Context, fields model.TrackFields) (*model.Track, error)
	GetTrackByID(ctx context.Context, id string) (*model.Track, error)
	// ListTracks returns at most limit tracks after skipping offset, ordered by
	// year descending. The result is never nil.
	ListTracks(ctx context.Context, filter TrackFilter, offset, limit int) ([]*model.Track, error)
	// UpdateTrack replaces all client-writable fields and returns the stored result.
	UpdateTrack(ctx context.Context, id string, fields model.TrackFields) (*model.Track, error)
	// DeleteTrack removes the track if it exists. Deleting an absent track is not an error.
	DeleteTrack(ctx context.Context, id string) error
}

// gormTrackRepository implements TrackRepository on top of GORM.
type gormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository creates a TrackRepository backed by gdb.
func NewGormTrackRepository(gdb *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: gdb}
}

// normalizeID validates id and returns its canonical form.
func normalizeID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidID, id, err)
	}
	return u.String(), nil
}

func (r *gormTrackRepository) CreateTrack(ctx context.Context, fields model.TrackFields) (*model.Track, error) {
	track := model.NewTrack(fields)
	if err := r.db.WithContext(ctx).Create(track).Error; err != nil {
		return nil, fmt.Errorf("failed to create track: %w", err)
	}
	return track, nil
}

func (r *gormTrackRepository) GetTrackByID(ctx context.Context, id string) (*model.Track, error) {
	key, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	var track model.Track
	err = r.db.WithContext(ctx).Where("id = ?", key).Take(&track).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("failed to get track %s: %w", key, err)
	}
	return &track, nil
}

func (r *gormTrackRepository) ListTracks(ctx context.Context, filter TrackFilter, offset, limit int) ([]*model.Track, error) {
	q := r.db.WithContext(ctx).Model(&model.Track{})
	if filter.Year != "" {
		q = q.Where("year = ?", filter.Year)
	}
	if filter.Genre != "" {
		q = q.Where("genre = ?", filter.Genre)
	}
	if filter.Artist != "" {
		q = q.Where("artist = ?", filter.Artist)
	}

	tracks := make([]*model.Track, 0, limit)
	err := q.Order("year DESC").
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}

func (r *gormTrackRepository) UpdateTrack(ctx context.Context, id string, fields model.TrackFields) (*model.Track, error) {
	key, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	var track model.Track
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Track{}).Where("id = ?", key).Updates(map[string]interface{}{
			"title":  fields.Title,
			"artist": fields.Artist,
			"album":  fields.Album,
			"year":   fields.Year,
			"genre":  fields.Genre,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTrackNotFound
		}
		return tx.Where("id = ?", key).Take(&track).Error
	})
	if err != nil {
		if errors.Is(err, ErrTrackNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update track %s: %w", key, err)
	}
	return &track, nil
}

func (r *gormTrackRepository) DeleteTrack(ctx context.Context, id string) error {
	key, err := normalizeID(id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", key).Delete(&model.Track{}).Error; err != nil {
		return fmt.Errorf("failed to delete track %s: %w", key, err)
	}
	return nil
}
