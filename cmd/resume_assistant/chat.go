package main

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [resume-id]",
	Short: "Chat interactively with the assistant",
	Long:  "Start an interactive chat session. With a resume id, the conversation is rehydrated from the persisted history and new messages are persisted as they are sent.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		if err := app.session.Select(ctx, id); err != nil {
			return err
		}
	}

	printConversation(cmd, app.session.Conversation().Messages())
	cmd.Println("Type a message, or \"exit\" to quit.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply, err := app.session.SendMessage(ctx, line)
		if err != nil {
			cmd.PrintErrf("Assistant: %s\n\n", "Sorry, I encountered an error.")
			continue
		}
		cmd.Printf("Assistant: %s\n\n", reply)
	}
	return scanner.Err()
}
