package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all resume records",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.session.RefreshResumes(ctx); err != nil {
		return err
	}

	resumes := app.session.Resumes()
	if len(resumes) == 0 {
		cmd.Println("No resumes found.")
		return nil
	}

	cmd.Printf("%-6s %-30s %-10s %s\n", "ID", "NAME", "STATUS", "SKILLS")
	for _, resume := range resumes {
		cmd.Printf("%-6d %-30s %-10s %s\n",
			resume.ID, resume.CandidateName, resume.Status, strings.Join(resume.Skills, ", "))
	}
	return nil
}
