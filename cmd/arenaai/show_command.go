package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lsm1103/ArenaAI/internal/render"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "List stored runs, or show one run's segments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showRun(ctx, cmd, args[0])
			}
			return showRuns(ctx, cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")

	return cmd
}

func showRuns(ctx *commandContext, cmd *cobra.Command, limit int) error {
	db, runs, _, err := ctx.openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := runs.GetRecentRuns(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs stored")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, run := range records {
		rows = append(rows, []string{
			run.ID,
			run.MatchName,
			run.BoardType,
			strconv.Itoa(run.SegmentCount),
			render.MinSec(run.TotalDurationMS),
			run.CreatedAt.Local().Format(time.DateTime),
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"RUN", "MATCH", "BOARD", "SEGMENTS", "DURATION", "CREATED"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	return nil
}

func showRun(ctx *commandContext, cmd *cobra.Command, runID string) error {
	db, runs, _, err := ctx.openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := runs.GetRun(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}

	segments, err := runs.GetSegmentsByRun(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s), %d segments\n",
		run.ID, run.MatchName, run.BoardType, run.SegmentCount)

	rows := make([][]string, 0, len(segments))
	for _, seg := range segments {
		rows = append(rows, []string{
			render.MinSec(seg.StartMS),
			render.MinSec(seg.EndMS),
			seg.DisplaySpeaker,
			seg.Text,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"START", "END", "SPEAKER", "TEXT"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
	))
	return nil
}
