package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobID uniquely identifies a job posting
type JobID = uuid.UUID

// ApplicationID uniquely identifies an application
type ApplicationID = uuid.UUID

// UserID identifies a candidate, recruiter or job owner
type UserID = uuid.UUID

// CompanyID identifies the company a job belongs to
type CompanyID = uuid.UUID

// SkillID identifies a skill in the skill directory
type SkillID = uuid.UUID

// NotificationID uniquely identifies a notification
type NotificationID = uuid.UUID

var (
	skillNamespace   = uuid.MustParse("8f4b1c2e-5d0a-4b7e-9a55-0d1c3e7f2a61")
	companyNamespace = uuid.MustParse("1c9e7a40-3b2f-4d8e-8f61-52a0b9c4d7e3")
	jobNamespace     = uuid.MustParse("d3a5f6b8-7c1e-4e92-b0a4-6e2f8c1d9b57")
)

// SkillIDFromName derives a stable skill id from a human readable skill name
func SkillIDFromName(name string) SkillID {
	return uuid.NewSHA1(skillNamespace, []byte(normalizeName(name)))
}

// CompanyIDFromName derives a stable company id from a company display name
func CompanyIDFromName(name string) CompanyID {
	return uuid.NewSHA1(companyNamespace, []byte(normalizeName(name)))
}

// JobIDFromExternal derives a stable job id from a provider name and its posting id
func JobIDFromExternal(source, externalID string) JobID {
	return uuid.NewSHA1(jobNamespace, []byte(normalizeName(source)+":"+externalID))
}

// Job is the job posting aggregate. Only ApplicationCount and Applications
// are written by the application engine.
type Job struct {
	ID               JobID
	CompanyID        CompanyID
	OwnerID          UserID
	Title            string
	Location         string
	URL              string
	Status           JobStatus
	RequiredSkills   []SkillID
	PreferredSkills  []SkillID
	ApplicationCount int
	Applications     []ApplicationID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Answer is a single screening question answered at submission time
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Note is an entry of the application's audit log
type Note struct {
	Content   string    `json:"content"`
	AuthorID  UserID    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Interview is a scheduled interview attached to an application
type Interview struct {
	Date           time.Time       `json:"date"`
	Location       string          `json:"location,omitempty"`
	InterviewerIDs []UserID        `json:"interviewer_ids,omitempty"`
	Type           InterviewType   `json:"type"`
	Status         InterviewStatus `json:"status"`
	Feedback       string          `json:"feedback,omitempty"`
}

// Application is a candidate's candidacy for one job posting
type Application struct {
	ID             ApplicationID     `json:"id"`
	JobID          JobID             `json:"job_id"`
	ApplicantID    UserID            `json:"applicant_id"`
	CompanyID      CompanyID         `json:"company_id"`
	Status         ApplicationStatus `json:"status"`
	CoverLetter    string            `json:"cover_letter,omitempty"`
	ResumeURL      string            `json:"resume_url,omitempty"`
	Answers        []Answer          `json:"answers,omitempty"`
	Notes          []Note            `json:"notes,omitempty"`
	Interviews     []Interview       `json:"interviews,omitempty"`
	MatchScore     int               `json:"match_score"`
	IsWithdrawn    bool              `json:"is_withdrawn"`
	WithdrawReason string            `json:"withdraw_reason,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// RelatedApplication is the only related entity type emitted by the engine
const RelatedApplication = "application"

// Notification is a message addressed to a single user
type Notification struct {
	ID          NotificationID   `json:"id"`
	RecipientID UserID           `json:"recipient_id"`
	Kind        NotificationKind `json:"kind"`
	Message     string           `json:"message"`
	RelatedID   uuid.UUID        `json:"related_id"`
	RelatedType string           `json:"related_type"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}
