package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status <resume-id> <pending|accepted|rejected>",
	Short: "Set a resume's review status",
	Args:  cobra.ExactArgs(2),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}

	status := args[1]
	switch status {
	case store.StatusPending, store.StatusAccepted, store.StatusRejected:
	default:
		return fmt.Errorf("unknown status %q (expected pending, accepted or rejected)", status)
	}

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.session.SetResumeStatus(ctx, id, status); err != nil {
		return err
	}

	cmd.Printf("Resume %d is now %s\n", id, status)
	return nil
}
