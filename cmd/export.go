package cmd

import (
	"context"
	"fmt"
	"time"

	"discogsapi/db"
	"discogsapi/model"
	"discogsapi/repository"
	"discogsapi/storage"

	"github.com/spf13/cobra"
)

var (
	exportPrefix  string
	exportYear    string
	exportGenre   string
	exportArtist  string
	exportTimeout time.Duration
)

const exportBatchSize = 500

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload a JSON snapshot of the tracks to MinIO",
	Long: `Read every track matching the optional filters, newest year first, and
upload them as one JSON document to the configured MinIO bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		gdb, err := db.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		filter := repository.TrackFilter{Year: exportYear, Genre: exportGenre, Artist: exportArtist}
		tracks, err := collectTracks(ctx, repository.NewGormTrackRepository(gdb), filter)
		if err != nil {
			return err
		}

		exporter, err := storage.NewExporter(cfg)
		if err != nil {
			return err
		}
		if err := exporter.EnsureBucket(ctx); err != nil {
			return err
		}
		key, err := exporter.Export(ctx, exportPrefix, tracks)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "exported %d tracks to %s/%s\n", len(tracks), cfg.MinioBucket, key)
		return nil
	},
}

// collectTracks pages through the repository until a short page is returned.
func collectTracks(ctx context.Context, repo repository.TrackRepository, filter repository.TrackFilter) ([]*model.Track, error) {
	all := make([]*model.Track, 0)
	for offset := 0; ; offset += exportBatchSize {
		batch, err := repo.ListTracks(ctx, filter, offset, exportBatchSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < exportBatchSize {
			return all, nil
		}
	}
}

func init() {
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "snapshots", "object key prefix inside the bucket")
	exportCmd.Flags().StringVar(&exportYear, "year", "", "only export tracks from this year")
	exportCmd.Flags().StringVar(&exportGenre, "genre", "", "only export tracks of this genre")
	exportCmd.Flags().StringVar(&exportArtist, "artist", "", "only export tracks by this artist")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 2*time.Minute, "overall time limit")
	rootCmd.AddCommand(exportCmd)
}
