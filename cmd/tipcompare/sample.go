package main

import (
	"github.com/spf13/cobra"

	"github.com/ahrav/go-tipstat/infrastructure/report"
	"github.com/ahrav/go-tipstat/internal/domain"
)

// sampleRecords is the small built-in dataset used by the sample command.
func sampleRecords() domain.Records {
	return domain.Records{
		{"tip": 3.0, "smoker": "No"},
		{"tip": 5.0, "smoker": "Yes"},
		{"tip": 2.5, "smoker": "No"},
		{"tip": 4.0, "smoker": "Yes"},
		{"tip": 3.5, "smoker": "No"},
	}
}

func newSampleCmd(root *rootOptions) *cobra.Command {
	run := &runOptions{}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Run the comparison on a built-in five record dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, root, run)
			if err != nil {
				return err
			}
			summary, err := s.compare(cmd.Context(), sampleRecords())
			if err != nil {
				return err
			}
			return s.finish(cmd.OutOrStdout(), cmd.ErrOrStderr(), []report.Result{{Summary: summary}})
		},
	}
	run.bind(cmd)

	return cmd
}
