package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lmurayire12/gradebook/internal/scoring"
	"github.com/lmurayire12/gradebook/internal/store"
)

func recomputeCmd() *cobra.Command {
	var all bool
	var studentID string

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute cached average scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (studentID != "") {
				return fmt.Errorf("exactly one of --all or --student is required")
			}
			return runRecompute(cmd.Context(), all, studentID)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "recompute every student")
	cmd.Flags().StringVar(&studentID, "student", "", "recompute one student by id")
	return cmd
}

func runRecompute(ctx context.Context, all bool, studentID string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	aggregator := scoring.New(db, nil, nil, logger)

	if all {
		result, err := aggregator.RecomputeAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("recomputed %d students, skipped %d\n", result.Recomputed, result.Skipped)
		return nil
	}

	id, err := uuid.Parse(studentID)
	if err != nil {
		return fmt.Errorf("invalid student id %q: %w", studentID, err)
	}
	score, err := aggregator.RecomputeAverage(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("student %s average_score=%d\n", id, score)
	return nil
}
