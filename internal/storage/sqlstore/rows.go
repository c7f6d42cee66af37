package sqlstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

const (
	skillRequired  = "required"
	skillPreferred = "preferred"
)

type jobRow struct {
	ID               uuid.UUID        `db:"id"`
	CompanyID        uuid.UUID        `db:"company_id"`
	OwnerID          uuid.UUID        `db:"owner_id"`
	Title            string           `db:"title"`
	Location         string           `db:"location"`
	URL              string           `db:"url"`
	Status           domain.JobStatus `db:"status"`
	ApplicationCount int              `db:"application_count"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

type jobSkillRow struct {
	SkillID uuid.UUID `db:"skill_id"`
	Kind    string    `db:"kind"`
}

func (r jobRow) toDomain(skills []jobSkillRow, apps []uuid.UUID) domain.Job {
	j := domain.Job{
		ID:               r.ID,
		CompanyID:        r.CompanyID,
		OwnerID:          r.OwnerID,
		Title:            r.Title,
		Location:         r.Location,
		URL:              r.URL,
		Status:           r.Status,
		ApplicationCount: r.ApplicationCount,
		Applications:     apps,
		CreatedAt:        r.CreatedAt.UTC(),
		UpdatedAt:        r.UpdatedAt.UTC(),
	}
	for _, s := range skills {
		switch s.Kind {
		case skillRequired:
			j.RequiredSkills = append(j.RequiredSkills, s.SkillID)
		case skillPreferred:
			j.PreferredSkills = append(j.PreferredSkills, s.SkillID)
		}
	}
	return j
}

type applicationRow struct {
	ID             uuid.UUID                `db:"id"`
	JobID          uuid.UUID                `db:"job_id"`
	ApplicantID    uuid.UUID                `db:"applicant_id"`
	CompanyID      uuid.UUID                `db:"company_id"`
	Status         domain.ApplicationStatus `db:"status"`
	CoverLetter    string                   `db:"cover_letter"`
	ResumeURL      string                   `db:"resume_url"`
	Answers        string                   `db:"answers"`
	MatchScore     int                      `db:"match_score"`
	IsWithdrawn    bool                     `db:"is_withdrawn"`
	WithdrawReason string                   `db:"withdraw_reason"`
	CreatedAt      time.Time                `db:"created_at"`
	UpdatedAt      time.Time                `db:"updated_at"`
}

func (r applicationRow) toDomain() (domain.Application, error) {
	a := domain.Application{
		ID:             r.ID,
		JobID:          r.JobID,
		ApplicantID:    r.ApplicantID,
		CompanyID:      r.CompanyID,
		Status:         r.Status,
		CoverLetter:    r.CoverLetter,
		ResumeURL:      r.ResumeURL,
		MatchScore:     r.MatchScore,
		IsWithdrawn:    r.IsWithdrawn,
		WithdrawReason: r.WithdrawReason,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
	if r.Answers != "" && r.Answers != "null" {
		if err := json.Unmarshal([]byte(r.Answers), &a.Answers); err != nil {
			return domain.Application{}, fmt.Errorf("decoding answers of %s: %w", r.ID, err)
		}
	}
	if len(a.Answers) == 0 {
		a.Answers = nil
	}
	return a, nil
}

type noteRow struct {
	ApplicationID uuid.UUID `db:"application_id"`
	Content       string    `db:"content"`
	AuthorID      uuid.UUID `db:"author_id"`
	CreatedAt     time.Time `db:"created_at"`
}

type interviewRow struct {
	ApplicationID  uuid.UUID `db:"application_id"`
	ScheduledAt    time.Time `db:"scheduled_at"`
	Location       string    `db:"location"`
	InterviewerIDs string    `db:"interviewer_ids"`
	Type           string    `db:"type"`
	Status         string    `db:"status"`
	Feedback       string    `db:"feedback"`
}

func (r interviewRow) toDomain() (domain.Interview, error) {
	iv := domain.Interview{
		Date:     r.ScheduledAt.UTC(),
		Location: r.Location,
		Feedback: r.Feedback,
	}
	var err error
	if iv.Type, err = domain.ParseInterviewType(r.Type); err != nil {
		return domain.Interview{}, err
	}
	if iv.Status, err = domain.ParseInterviewStatus(r.Status); err != nil {
		return domain.Interview{}, err
	}
	if r.InterviewerIDs != "" && r.InterviewerIDs != "null" {
		if err := json.Unmarshal([]byte(r.InterviewerIDs), &iv.InterviewerIDs); err != nil {
			return domain.Interview{}, fmt.Errorf("decoding interviewers: %w", err)
		}
	}
	if len(iv.InterviewerIDs) == 0 {
		iv.InterviewerIDs = nil
	}
	return iv, nil
}

type notificationRow struct {
	ID          uuid.UUID               `db:"id"`
	RecipientID uuid.UUID               `db:"recipient_id"`
	Kind        domain.NotificationKind `db:"kind"`
	Message     string                  `db:"message"`
	RelatedID   uuid.UUID               `db:"related_id"`
	RelatedType string                  `db:"related_type"`
	IsRead      bool                    `db:"is_read"`
	CreatedAt   time.Time               `db:"created_at"`
}

func (r notificationRow) toDomain() domain.Notification {
	return domain.Notification{
		ID:          r.ID,
		RecipientID: r.RecipientID,
		Kind:        r.Kind,
		Message:     r.Message,
		RelatedID:   r.RelatedID,
		RelatedType: r.RelatedType,
		IsRead:      r.IsRead,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
