package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/j0rgedev/football-analysis/internal/adapters/trackfile"
	"github.com/j0rgedev/football-analysis/pkg/logger"
)

func newIngestCmd(c *cli) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "ingest [file.json...]",
		Short: "Ingest tracking files",
		Long: "Ingest one or more tracking documents. The video id is the file name without " +
			"its extension. With --all every .json file in input_dir is ingested.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.Named("ingest")

			files := args
			if all {
				listed, skipped, err := trackfile.List(c.cfg.InputDir)
				if err != nil {
					return err
				}
				for _, path := range skipped {
					log.Info(ctx, "skipping non-tracking file", logger.String("path", path))
				}
				files = append(files, listed...)
			}
			if len(files) == 0 {
				return errors.New("no input files: pass file paths or --all")
			}

			pipeline, err := newPipeline(c.cfg)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			var errs []error
			for _, path := range files {
				if ctx.Err() != nil {
					errs = append(errs, ctx.Err())
					break
				}
				in, err := trackfile.Read(path)
				if err != nil {
					log.Error(ctx, "cannot read tracking file", logger.String("path", path), logger.Error(err))
					errs = append(errs, err)
					continue
				}
				res, err := pipeline.Ingest(ctx, in.Tracks, in.TeamBallControl, trackfile.VideoID(path))
				if err != nil {
					log.Error(ctx, "ingestion failed", logger.String("path", path), logger.Error(err))
					errs = append(errs, err)
					continue
				}
				if err := enc.Encode(res); err != nil {
					return err
				}
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d of %d videos failed: %w", len(errs), len(files), errors.Join(errs...))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "ingest every .json file in input_dir")
	return cmd
}
