// Package intake covers the two ways a resume enters the system: a form
// submission with explicit fields, and a file upload that is parsed into
// fields by the backend. Both flows end with the resume list refreshed and
// the conversation enriched, and both degrade gracefully: once the record
// exists, failures of the secondary steps never undo it.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-assistant/internal/export"
	"github.com/jonathan/resume-assistant/internal/logger"
	"github.com/jonathan/resume-assistant/internal/prompts"
	"github.com/jonathan/resume-assistant/internal/session"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/upload"
)

// FormData holds the fields of a manual resume submission.
type FormData struct {
	Name       string `validate:"required"`
	Email      string `validate:"omitempty,email"`
	Phone      string
	Experience string
	Education  string
	Skills     []string
}

// Exporter is the PDF pipeline as the intake flow sees it.
type Exporter interface {
	Export(ctx context.Context, src export.Source, outputPath string) (*export.Document, error)
}

// Flow wires the intake steps over the store, the upload service, the
// session and the export pipeline.
type Flow struct {
	store     *store.Client
	uploader  *upload.Adapter
	session   *session.Session
	exporter  Exporter
	validate  *validator.Validate
	outputDir string
}

// NewFlow creates an intake flow. exporter may be nil, in which case form
// submissions skip the PDF step.
func NewFlow(storeClient *store.Client, uploader *upload.Adapter, sess *session.Session, exporter Exporter, outputDir string) *Flow {
	return &Flow{
		store:     storeClient,
		uploader:  uploader,
		session:   sess,
		exporter:  exporter,
		validate:  validator.New(),
		outputDir: outputDir,
	}
}

// SubmitForm validates and persists a form submission, narrates it into the
// conversation, requests one feedback completion and kicks off a PDF export.
// The create is the only step that can fail the flow; everything after it
// degrades gracefully.
func (f *Flow) SubmitForm(ctx context.Context, form FormData) (*store.Resume, error) {
	if err := f.validate.Struct(form); err != nil {
		return nil, &ValidationError{Message: validationMessage(err)}
	}

	resume, err := f.store.Create(ctx, store.CreateResumeRequest{
		CandidateName: form.Name,
		Email:         form.Email,
		Phone:         form.Phone,
		Experience:    form.Experience,
		Education:     form.Education,
		Skills:        form.Skills,
		Status:        store.StatusPending,
	})
	if err != nil {
		f.session.Conversation().Append(session.RoleBot, prompts.MustGet("chat.json", "intake-apology"))
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}

	summary := prompts.Format(prompts.MustGet("chat.json", "created-summary"), map[string]string{
		"Name":       form.Name,
		"Email":      form.Email,
		"Phone":      form.Phone,
		"Experience": form.Experience,
		"Education":  form.Education,
		"Skills":     strings.Join(form.Skills, ", "),
	})
	f.session.Conversation().Append(session.RoleUser, summary)

	f.requestFeedback(ctx, resume)

	if err := f.session.RefreshResumes(ctx); err != nil {
		logger.Warn("failed to refresh resume list after create: %v", err)
	}

	if f.exporter != nil {
		outputPath := filepath.Join(f.outputDir, fmt.Sprintf("resume-%d.pdf", resume.ID))
		src := export.Source{
			Name:       form.Name,
			Email:      form.Email,
			Phone:      form.Phone,
			Experience: form.Experience,
			Education:  form.Education,
			Skills:     form.Skills,
		}
		if _, err := f.exporter.Export(ctx, src, outputPath); err != nil {
			logger.Warn("PDF export for resume %d failed: %v", resume.ID, err)
		}
	}

	return resume, nil
}

// UploadResume pushes the file to the upload service, creates a stub record,
// and has the backend parse the file into fields. If a step after the stub
// create fails, the stub is marked failed so it never lingers as a
// plausible-looking pending resume.
func (f *Flow) UploadResume(ctx context.Context, filename, contentType string, body io.Reader) (*store.Resume, error) {
	if !upload.AllowedTypes[contentType] {
		return nil, &ValidationError{
			Message: fmt.Sprintf("File type %s not supported. Please upload PDF, DOC, or DOCX files only", contentType),
		}
	}

	fileURL, err := f.uploader.Upload(ctx, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload resume file: %w", err)
	}

	stub, err := f.store.Create(ctx, store.CreateResumeRequest{
		CandidateName: stubName(filename),
		ResumeFileURL: fileURL,
		Status:        store.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resume record: %w", err)
	}

	parsed, err := f.store.ParseResume(ctx, fileURL)
	if err != nil {
		f.markFailed(ctx, stub.ID)
		return nil, fmt.Errorf("failed to parse resume file: %w", err)
	}

	fields := make(map[string]any, len(parsed))
	for key, value := range parsed {
		fields[key] = value
	}
	delete(fields, "id")
	delete(fields, "resume_id")

	if err := f.store.UpdateStatus(ctx, stub.ID, fields); err != nil {
		f.markFailed(ctx, stub.ID)
		return nil, fmt.Errorf("failed to apply parsed fields: %w", err)
	}

	if err := f.session.RefreshResumes(ctx); err != nil {
		logger.Warn("failed to refresh resume list after upload: %v", err)
	}
	if err := f.session.Select(ctx, stub.ID); err != nil {
		logger.Warn("failed to select uploaded resume %d: %v", stub.ID, err)
	}

	return stub, nil
}

// requestFeedback asks for one review completion over the created record and
// appends it as a bot message. Failures degrade gracefully; the engine has
// already appended its apology by the time this logs.
func (f *Flow) requestFeedback(ctx context.Context, resume *store.Resume) {
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		logger.Warn("failed to encode resume %d for feedback: %v", resume.ID, err)
		return
	}
	prompt := prompts.Format(prompts.MustGet("chat.json", "review-feedback"), map[string]string{
		"ResumeJSON": string(resumeJSON),
	})

	feedback, err := f.session.Conversation().RequestCompletion(ctx, prompt)
	if err != nil {
		logger.Warn("feedback for resume %d skipped: %v", resume.ID, err)
		return
	}
	f.session.Conversation().Append(session.RoleBot, feedback)
}

// markFailed flags a stub record whose pipeline broke after creation.
// Best effort; the stub staying pending is worse than this call failing.
func (f *Flow) markFailed(ctx context.Context, id int64) {
	if err := f.store.UpdateStatus(ctx, id, map[string]any{"status": store.StatusFailed}); err != nil {
		logger.Warn("failed to mark resume %d as failed: %v", id, err)
	}
}

// stubName derives a provisional candidate name from the uploaded filename.
func stubName(filename string) string {
	base := filepath.Base(filename)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	first := fieldErrs[0]
	switch first.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(first.Field()))
	case "email":
		return "email address is not valid"
	default:
		return fmt.Sprintf("%s failed %s validation", strings.ToLower(first.Field()), first.Tag())
	}
}
