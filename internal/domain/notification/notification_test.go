package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

func TestMessages(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	job := domain.Job{ID: uuid.New(), OwnerID: uuid.New(), Title: "Backend Engineer"}
	app := domain.Application{ID: uuid.New(), JobID: job.ID, ApplicantID: uuid.New(), Status: domain.StatusReviewing}

	n := NewApplication(uuid.New(), job, app, now)
	assert.Equal(t, job.OwnerID, n.RecipientID)
	assert.Equal(t, domain.NotifyNewApplication, n.Kind)
	assert.Equal(t, "New application received for Backend Engineer", n.Message)
	assert.Equal(t, app.ID, n.RelatedID)
	assert.Equal(t, domain.RelatedApplication, n.RelatedType)
	assert.False(t, n.IsRead)

	n = StatusUpdate(uuid.New(), app, now)
	assert.Equal(t, app.ApplicantID, n.RecipientID)
	assert.Equal(t, "Your application status has been updated to reviewing", n.Message)

	n = Withdrawn(uuid.New(), job, app, now)
	assert.Equal(t, job.OwnerID, n.RecipientID)
	assert.Equal(t, domain.NotifyApplicationWithdrawn, n.Kind)

	iv := domain.Interview{Date: now.Add(48 * time.Hour)}
	n = InterviewScheduled(uuid.New(), job, app, iv, now)
	assert.Equal(t, app.ApplicantID, n.RecipientID)
	assert.Contains(t, n.Message, "Backend Engineer")
	assert.Contains(t, n.Message, "06 Mar 2025")
}
