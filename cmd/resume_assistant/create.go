package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/intake"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a resume from explicit fields",
	Long:  "Create a resume record from explicit fields, get one round of assistant feedback on it, and export it as a PDF.",
	RunE:  runCreate,
}

var (
	createName       string
	createEmail      string
	createPhone      string
	createExperience string
	createEducation  string
	createSkills     []string
)

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "Candidate name (required)")
	createCmd.Flags().StringVar(&createEmail, "email", "", "Contact email")
	createCmd.Flags().StringVar(&createPhone, "phone", "", "Contact phone")
	createCmd.Flags().StringVar(&createExperience, "experience", "", "Work experience, free text")
	createCmd.Flags().StringVar(&createEducation, "education", "", "Education, free text")
	createCmd.Flags().StringSliceVar(&createSkills, "skills", nil, "Skills, comma separated")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	resume, err := app.flow.SubmitForm(ctx, intake.FormData{
		Name:       createName,
		Email:      createEmail,
		Phone:      createPhone,
		Experience: createExperience,
		Education:  createEducation,
		Skills:     createSkills,
	})
	if err != nil {
		var validationErr *intake.ValidationError
		if errors.As(err, &validationErr) {
			return errors.New(validationErr.Message)
		}
		return err
	}

	cmd.Printf("Created resume %d for %s (status: %s)\n\n", resume.ID, resume.CandidateName, resume.Status)
	printConversation(cmd, app.session.Conversation().Messages())
	return nil
}
