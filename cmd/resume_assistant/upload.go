package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a resume file and parse it into a record",
	Long:  "Upload a PDF, DOC or DOCX resume to the file service, create a record for it, and have the backend parse the file into structured fields.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

// contentTypeFor maps a filename extension to the upload MIME type.
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.cfg.UploadURL == "" {
		return fmt.Errorf("upload endpoint is required (use --upload-url or UPLOAD_URL)")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	resume, err := app.flow.UploadResume(ctx, filepath.Base(path), contentTypeFor(path), file)
	if err != nil {
		return err
	}

	cmd.Printf("Uploaded resume %d (%s)\n\n", resume.ID, resume.CandidateName)
	printConversation(cmd, app.session.Conversation().Messages())
	return nil
}
