// Package notification composes the messages the application engine sends.
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

// NewApplication tells the job owner a candidate applied
func NewApplication(id domain.NotificationID, job domain.Job, app domain.Application, now time.Time) domain.Notification {
	return build(id, job.OwnerID, domain.NotifyNewApplication,
		fmt.Sprintf("New application received for %s", job.Title), app.ID, now)
}

// StatusUpdate tells the applicant their application moved
func StatusUpdate(id domain.NotificationID, app domain.Application, now time.Time) domain.Notification {
	return build(id, app.ApplicantID, domain.NotifyStatusUpdate,
		fmt.Sprintf("Your application status has been updated to %s", app.Status), app.ID, now)
}

// Withdrawn tells the job owner a candidate pulled out
func Withdrawn(id domain.NotificationID, job domain.Job, app domain.Application, now time.Time) domain.Notification {
	return build(id, job.OwnerID, domain.NotifyApplicationWithdrawn,
		"A candidate has withdrawn their application", app.ID, now)
}

// InterviewScheduled tells the applicant when their interview is
func InterviewScheduled(id domain.NotificationID, job domain.Job, app domain.Application, iv domain.Interview, now time.Time) domain.Notification {
	msg := fmt.Sprintf("An interview for %s has been scheduled on %s", job.Title, iv.Date.UTC().Format(time.RFC1123))
	return build(id, app.ApplicantID, domain.NotifyInterviewScheduled, msg, app.ID, now)
}

func build(id domain.NotificationID, to domain.UserID, kind domain.NotificationKind, msg string, related uuid.UUID, now time.Time) domain.Notification {
	return domain.Notification{
		ID:          id,
		RecipientID: to,
		Kind:        kind,
		Message:     msg,
		RelatedID:   related,
		RelatedType: domain.RelatedApplication,
		CreatedAt:   now,
	}
}
