package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Track is a song metadata record. All five descriptive fields are plain
// strings; Year is never interpreted as a number.
type Track struct {
	ID        string    `json:"_id" gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Artist    string    `json:"artist" gorm:"type:varchar(255);not null;index"`
	Album     string    `json:"album" gorm:"type:varchar(255);not null"`
	Year      string    `json:"year" gorm:"type:varchar(32);not null;index"`
	Genre     string    `json:"genre" gorm:"type:varchar(128);not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName pins the collection name regardless of GORM naming strategy.
func (Track) TableName() string {
	return "tracks"
}

// BeforeCreate assigns the identifier. Clients never choose it.
func (t *Track) BeforeCreate(tx *gorm.DB) error {
	t.ID = uuid.NewString()
	return nil
}

// TrackFields are the client-writable fields of a track, used for both
// create and full-replace update.
type TrackFields struct {
	Title  string
	Artist string
	Album  string
	Year   string
	Genre  string
}

// MissingField returns the display name of the first empty field, checked in
// the order Title, Artist, Album, Year, Genre. It returns "" when every field
// is present.
func (f TrackFields) MissingField() string {
	required := []struct {
		name  string
		value string
	}{
		{"Title", f.Title},
		{"Artist", f.Artist},
		{"Album", f.Album},
		{"Year", f.Year},
		{"Genre", f.Genre},
	}
	for _, r := range required {
		if r.value == "" {
			return r.name
		}
	}
	return ""
}

// NewTrack builds an unsaved track from the given fields.
func NewTrack(f TrackFields) *Track {
	return &Track{
		Title:  f.Title,
		Artist: f.Artist,
		Album:  f.Album,
		Year:   f.Year,
		Genre:  f.Genre,
	}
}
