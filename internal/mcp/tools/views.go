package tools

import (
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

// ApplicationView is the wire shape of an application
type ApplicationView struct {
	ID             string          `json:"id"`
	JobID          string          `json:"job_id"`
	ApplicantID    string          `json:"applicant_id"`
	CompanyID      string          `json:"company_id"`
	Status         string          `json:"status"`
	CoverLetter    string          `json:"cover_letter,omitempty"`
	ResumeURL      string          `json:"resume_url,omitempty"`
	Answers        []AnswerView    `json:"answers,omitempty"`
	Notes          []NoteView      `json:"notes,omitempty"`
	Interviews     []InterviewView `json:"interviews,omitempty"`
	MatchScore     int             `json:"match_score"`
	IsWithdrawn    bool            `json:"is_withdrawn"`
	WithdrawReason string          `json:"withdraw_reason,omitempty"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// AnswerView is a screening answer
type AnswerView struct {
	Question string `json:"question" jsonschema:"Screening question text"`
	Answer   string `json:"answer,omitempty" jsonschema:"Candidate answer"`
}

// NoteView is an audit note
type NoteView struct {
	Content   string `json:"content"`
	AuthorID  string `json:"author_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// InterviewView is a scheduled interview
type InterviewView struct {
	Date           string   `json:"date"`
	Location       string   `json:"location,omitempty"`
	InterviewerIDs []string `json:"interviewer_ids,omitempty"`
	Type           string   `json:"type"`
	Status         string   `json:"status"`
	Feedback       string   `json:"feedback,omitempty"`
}

// NotificationView is the wire shape of a notification
type NotificationView struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	RelatedID   string `json:"related_id"`
	RelatedType string `json:"related_type"`
	IsRead      bool   `json:"is_read"`
	CreatedAt   string `json:"created_at"`
}

// JobView is the wire shape of a directory job
type JobView struct {
	ID               string   `json:"id"`
	CompanyID        string   `json:"company_id"`
	OwnerID          string   `json:"owner_id"`
	Title            string   `json:"title"`
	Location         string   `json:"location,omitempty"`
	URL              string   `json:"url,omitempty"`
	Status           string   `json:"status"`
	RequiredSkills   []string `json:"required_skills,omitempty"`
	PreferredSkills  []string `json:"preferred_skills,omitempty"`
	ApplicationCount int      `json:"application_count"`
}

func applicationView(a domain.Application) ApplicationView {
	v := ApplicationView{
		ID:             a.ID.String(),
		JobID:          a.JobID.String(),
		ApplicantID:    a.ApplicantID.String(),
		CompanyID:      a.CompanyID.String(),
		Status:         a.Status.String(),
		CoverLetter:    a.CoverLetter,
		ResumeURL:      a.ResumeURL,
		MatchScore:     a.MatchScore,
		IsWithdrawn:    a.IsWithdrawn,
		WithdrawReason: a.WithdrawReason,
		CreatedAt:      formatTime(a.CreatedAt),
		UpdatedAt:      formatTime(a.UpdatedAt),
	}
	for _, ans := range a.Answers {
		v.Answers = append(v.Answers, AnswerView{Question: ans.Question, Answer: ans.Answer})
	}
	for _, n := range a.Notes {
		v.Notes = append(v.Notes, NoteView{
			Content:   n.Content,
			AuthorID:  optionalID(n.AuthorID),
			CreatedAt: formatTime(n.CreatedAt),
		})
	}
	for _, iv := range a.Interviews {
		v.Interviews = append(v.Interviews, InterviewView{
			Date:           formatTime(iv.Date),
			Location:       iv.Location,
			InterviewerIDs: idStrings(iv.InterviewerIDs),
			Type:           iv.Type.String(),
			Status:         iv.Status.String(),
			Feedback:       iv.Feedback,
		})
	}
	return v
}

func applicationViews(apps []domain.Application) []ApplicationView {
	out := make([]ApplicationView, 0, len(apps))
	for _, a := range apps {
		out = append(out, applicationView(a))
	}
	return out
}

func notificationView(n domain.Notification) NotificationView {
	return NotificationView{
		ID:          n.ID.String(),
		RecipientID: n.RecipientID.String(),
		Kind:        n.Kind.String(),
		Message:     n.Message,
		RelatedID:   n.RelatedID.String(),
		RelatedType: n.RelatedType,
		IsRead:      n.IsRead,
		CreatedAt:   formatTime(n.CreatedAt),
	}
}

func jobView(j domain.Job) JobView {
	return JobView{
		ID:               j.ID.String(),
		CompanyID:        j.CompanyID.String(),
		OwnerID:          j.OwnerID.String(),
		Title:            j.Title,
		Location:         j.Location,
		URL:              j.URL,
		Status:           j.Status.String(),
		RequiredSkills:   idStrings(j.RequiredSkills),
		PreferredSkills:  idStrings(j.PreferredSkills),
		ApplicationCount: j.ApplicationCount,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func optionalID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func idStrings(ids []uuid.UUID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
