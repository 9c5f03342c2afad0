package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReconcileCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <video_id>",
		Short: "Repair a partially written video",
		Long: "Classify a video by its row counts in both tables and delete the rows of a " +
			"partial write. Nothing is ingested.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline(c.cfg)
			if err != nil {
				return err
			}
			state, err := pipeline.Reconcile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", args[0], state)
			return err
		},
	}
}
