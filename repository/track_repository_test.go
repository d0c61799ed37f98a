package repository

import (
	"context"
	"fmt"
	"testing"

	"discogsapi/config"
	"discogsapi/db"
	"discogsapi/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) TrackRepository {
	t.Helper()
	gdb, err := db.Open(&config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.AutoMigrate(gdb))
	return NewGormTrackRepository(gdb)
}

func fields(title, artist, year, genre string) model.TrackFields {
	return model.TrackFields{Title: title, Artist: artist, Album: title + " (album)", Year: year, Genre: genre}
}

func TestCreateAndGetTrack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateTrack(ctx, fields("Windowlicker", "Aphex Twin", "1999", "IDM"))
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	require.NoError(t, err)

	other, err := repo.CreateTrack(ctx, fields("Windowlicker", "Aphex Twin", "1999", "IDM"))
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)

	got, err := repo.GetTrackByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Windowlicker", got.Title)
	assert.Equal(t, "Aphex Twin", got.Artist)
	assert.Equal(t, "Windowlicker (album)", got.Album)
	assert.Equal(t, "1999", got.Year)
	assert.Equal(t, "IDM", got.Genre)
}

func TestGetTrackByID_NotFoundAndInvalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetTrackByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrTrackNotFound)

	_, err = repo.GetTrackByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.NotErrorIs(t, err, ErrTrackNotFound)
}

func TestListTracks_PaginationAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := repo.CreateTrack(ctx, fields(fmt.Sprintf("Track %02d", i), "Various", fmt.Sprintf("%d", 1990+i), "Rock"))
		require.NoError(t, err)
	}

	first, err := repo.ListTracks(ctx, TrackFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, "2001", first[0].Year)
	assert.Equal(t, "1992", first[9].Year)
	for i := 1; i < len(first); i++ {
		assert.GreaterOrEqual(t, first[i-1].Year, first[i].Year)
	}

	second, err := repo.ListTracks(ctx, TrackFilter{}, 10, 10)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "1991", second[0].Year)
	assert.Equal(t, "1990", second[1].Year)

	empty, err := repo.ListTracks(ctx, TrackFilter{}, 20, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestListTracks_Filters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed := []model.TrackFields{
		fields("A", "Blur", "1999", "Britpop"),
		fields("B", "Blur", "1997", "Britpop"),
		fields("C", "Moby", "1999", "Electronic"),
		fields("D", "Moby", "1999.0", "Electronic"),
		fields("E", "Oasis", "1999", "Britpop"),
	}
	for _, f := range seed {
		_, err := repo.CreateTrack(ctx, f)
		require.NoError(t, err)
	}

	byYear, err := repo.ListTracks(ctx, TrackFilter{Year: "1999"}, 0, 10)
	require.NoError(t, err)
	assert.Len(t, byYear, 3)
	for _, tr := range byYear {
		assert.Equal(t, "1999", tr.Year)
	}

	combined, err := repo.ListTracks(ctx, TrackFilter{Year: "1999", Genre: "Britpop", Artist: "Blur"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, "A", combined[0].Title)

	none, err := repo.ListTracks(ctx, TrackFilter{Artist: "blur"}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateTrack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateTrack(ctx, fields("Old", "Someone", "1980", "Pop"))
	require.NoError(t, err)

	updated, err := repo.UpdateTrack(ctx, created.ID, fields("New", "Someone Else", "1981", "Jazz"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "Someone Else", updated.Artist)
	assert.Equal(t, "1981", updated.Year)
	assert.Equal(t, "Jazz", updated.Genre)

	// Writing identical values still finds the row.
	again, err := repo.UpdateTrack(ctx, created.ID, fields("New", "Someone Else", "1981", "Jazz"))
	require.NoError(t, err)
	assert.Equal(t, "New", again.Title)

	_, err = repo.UpdateTrack(ctx, uuid.NewString(), fields("X", "Y", "2000", "Z"))
	assert.ErrorIs(t, err, ErrTrackNotFound)

	_, err = repo.UpdateTrack(ctx, "12345", fields("X", "Y", "2000", "Z"))
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestDeleteTrack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateTrack(ctx, fields("Gone", "Soon", "2005", "Indie"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTrack(ctx, created.ID))
	_, err = repo.GetTrackByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTrackNotFound)

	// Deleting again is not an error.
	assert.NoError(t, repo.DeleteTrack(ctx, created.ID))
	assert.ErrorIs(t, repo.DeleteTrack(ctx, "bogus"), ErrInvalidID)
}
