package store

// Resume status values. A record starts pending and moves to accepted or
// rejected through explicit status changes; failed marks a stub whose upload
// pipeline aborted partway.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// Resume is a resume record as returned by the persistence API. The id is
// assigned by the backend and immutable once assigned.
type Resume struct {
	ID            int64    `json:"id"`
	CandidateName string   `json:"candidate_name"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Experience    string   `json:"experience,omitempty"`
	Education     string   `json:"education,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"created_at,omitempty"`
	ResumeFileURL string   `json:"resume_file_url,omitempty"`
}

// CreateResumeRequest holds the fields sent to the create endpoint. Either a
// full form submission or an upload stub (name, file URL, status only).
type CreateResumeRequest struct {
	CandidateName string   `json:"candidate_name"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Experience    string   `json:"experience,omitempty"`
	Education     string   `json:"education,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	Status        string   `json:"status,omitempty"`
	ResumeFileURL string   `json:"resume_file_url,omitempty"`
}

// ChatMessage is a persisted chat history entry.
type ChatMessage struct {
	IsBot   bool   `json:"is_bot"`
	Message string `json:"message"`
}
