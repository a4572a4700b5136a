package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/observability"
)

var screenCmd = &cobra.Command{
	Use:   "screen <resume-id>",
	Short: "Load a resume's conversation and get a screening comment",
	Long:  "Load a resume record with its persisted chat history and ask the assistant for an initial screening comment.",
	Args:  cobra.ExactArgs(1),
	RunE:  runScreen,
}

func init() {
	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.session.Select(ctx, id); err != nil {
		return err
	}

	if app.cfg.Verbose {
		resume, err := app.store.GetByID(ctx, id)
		if err == nil {
			observability.NewPrinter(cmd.OutOrStdout()).PrintResume(resume)
		}
	}
	printConversation(cmd, app.session.Conversation().Messages())
	return nil
}
