package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

var _ repository.Tx = (*queries)(nil)

// queries runs statements against either the pool or an open transaction
type queries struct {
	ext sqlx.ExtContext
}

func (q *queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := q.ext.ExecContext(ctx, q.ext.Rebind(query), args...)
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

func (q *queries) get(ctx context.Context, dest any, query string, args ...any) error {
	if err := sqlx.GetContext(ctx, q.ext, dest, q.ext.Rebind(query), args...); err != nil {
		return classify(err)
	}
	return nil
}

func (q *queries) sel(ctx context.Context, dest any, query string, args ...any) error {
	if err := sqlx.SelectContext(ctx, q.ext, dest, q.ext.Rebind(query), args...); err != nil {
		return classify(err)
	}
	return nil
}

const jobColumns = `id, company_id, owner_id, title, location, url, status, application_count, created_at, updated_at`

func (q *queries) GetJob(ctx context.Context, id domain.JobID) (domain.Job, error) {
	var row jobRow
	if err := q.get(ctx, &row, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id); err != nil {
		return domain.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}

	var skills []jobSkillRow
	if err := q.sel(ctx, &skills,
		`SELECT skill_id, kind FROM job_skills WHERE job_id = ? ORDER BY kind, position`, id); err != nil {
		return domain.Job{}, fmt.Errorf("get job skills %s: %w", id, err)
	}

	var apps []uuid.UUID
	if err := q.sel(ctx, &apps,
		`SELECT application_id FROM job_applications WHERE job_id = ? ORDER BY seq`, id); err != nil {
		return domain.Job{}, fmt.Errorf("get job applications %s: %w", id, err)
	}
	if len(apps) == 0 {
		apps = nil
	}

	return row.toDomain(skills, apps), nil
}

func (q *queries) IncrementApplicationCounter(ctx context.Context, jobID domain.JobID, applicationID domain.ApplicationID) error {
	res, err := q.exec(ctx,
		`UPDATE jobs SET application_count = application_count + 1 WHERE id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("increment counter of job %s: %w", jobID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("increment counter of job %s: %w", jobID, repository.ErrNotFound)
	}

	if _, err := q.exec(ctx,
		`INSERT INTO job_applications (job_id, application_id) VALUES (?, ?)`, jobID, applicationID); err != nil {
		return fmt.Errorf("append application to job %s: %w", jobID, err)
	}
	return nil
}

func (q *queries) GetCandidateSkills(ctx context.Context, userID domain.UserID) ([]domain.SkillID, error) {
	var ids []uuid.UUID
	if err := q.sel(ctx, &ids, `SELECT skill_id FROM candidate_skills WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("get candidate skills %s: %w", userID, err)
	}
	return ids, nil
}

const applicationColumns = `id, job_id, applicant_id, company_id, status, cover_letter, resume_url, answers,
	match_score, is_withdrawn, withdraw_reason, created_at, updated_at`

func (q *queries) GetApplication(ctx context.Context, id domain.ApplicationID) (domain.Application, error) {
	var row applicationRow
	if err := q.get(ctx, &row, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id); err != nil {
		return domain.Application{}, fmt.Errorf("get application %s: %w", id, err)
	}
	apps, err := q.hydrate(ctx, []applicationRow{row})
	if err != nil {
		return domain.Application{}, err
	}
	return apps[0], nil
}

func (q *queries) FindApplicationByPair(ctx context.Context, jobID domain.JobID, applicantID domain.UserID) (domain.Application, error) {
	var row applicationRow
	if err := q.get(ctx, &row,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = ? AND applicant_id = ?`,
		jobID, applicantID); err != nil {
		return domain.Application{}, fmt.Errorf("find application for job %s: %w", jobID, err)
	}
	apps, err := q.hydrate(ctx, []applicationRow{row})
	if err != nil {
		return domain.Application{}, err
	}
	return apps[0], nil
}

func (q *queries) InsertApplication(ctx context.Context, app domain.Application) error {
	answers := app.Answers
	if answers == nil {
		answers = []domain.Answer{}
	}
	encoded, err := encodeJSON(answers)
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}

	_, err = q.exec(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID, app.JobID, app.ApplicantID, app.CompanyID, app.Status,
		app.CoverLetter, app.ResumeURL, encoded, app.MatchScore,
		app.IsWithdrawn, app.WithdrawReason, app.CreatedAt.UTC(), app.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert application %s: %w", app.ID, err)
	}

	for _, n := range app.Notes {
		if err := q.AppendNote(ctx, app.ID, n); err != nil {
			return err
		}
	}
	for _, iv := range app.Interviews {
		if err := q.AppendInterview(ctx, app.ID, iv); err != nil {
			return err
		}
	}
	return nil
}

func (q *queries) UpdateApplicationState(ctx context.Context, u repository.StateUpdate) error {
	res, err := q.exec(ctx, `
		UPDATE applications
		SET status = ?, is_withdrawn = ?, withdraw_reason = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		u.Status, u.IsWithdrawn, u.WithdrawReason, u.UpdatedAt.UTC(), u.ID, u.Expected,
	)
	if err != nil {
		return fmt.Errorf("update application %s: %w", u.ID, err)
	}
	return q.requireRow(ctx, res, u.ID)
}

func (q *queries) UpdateMatchScore(ctx context.Context, id domain.ApplicationID, score int, updatedAt time.Time) error {
	res, err := q.exec(ctx,
		`UPDATE applications SET match_score = ?, updated_at = ? WHERE id = ?`,
		score, updatedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("update match score of %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update match score of %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

// requireRow tells a missing application apart from a compare-and-set miss
func (q *queries) requireRow(ctx context.Context, res sql.Result, id domain.ApplicationID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var count int
	if err := q.get(ctx, &count, `SELECT COUNT(1) FROM applications WHERE id = ?`, id); err != nil {
		return fmt.Errorf("check application %s: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("application %s: %w", id, repository.ErrNotFound)
	}
	return fmt.Errorf("application %s changed concurrently: %w", id, repository.ErrConflict)
}

func (q *queries) AppendNote(ctx context.Context, id domain.ApplicationID, note domain.Note) error {
	_, err := q.exec(ctx,
		`INSERT INTO application_notes (application_id, content, author_id, created_at) VALUES (?, ?, ?, ?)`,
		id, note.Content, note.AuthorID, note.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("append note to %s: %w", id, err)
	}
	return nil
}

func (q *queries) AppendInterview(ctx context.Context, id domain.ApplicationID, iv domain.Interview) error {
	interviewers := iv.InterviewerIDs
	if interviewers == nil {
		interviewers = []domain.UserID{}
	}
	encoded, err := encodeJSON(interviewers)
	if err != nil {
		return fmt.Errorf("encoding interviewers: %w", err)
	}

	_, err = q.exec(ctx, `
		INSERT INTO application_interviews
			(application_id, scheduled_at, location, interviewer_ids, type, status, feedback)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, iv.Date.UTC(), iv.Location, encoded, iv.Type.String(), iv.Status.String(), iv.Feedback)
	if err != nil {
		return fmt.Errorf("append interview to %s: %w", id, err)
	}
	return nil
}

func (q *queries) CreateNotification(ctx context.Context, n domain.Notification) error {
	_, err := q.exec(ctx, `
		INSERT INTO notifications (id, recipient_id, kind, message, related_id, related_type, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.RecipientID, n.Kind, n.Message, n.RelatedID, n.RelatedType, n.IsRead, n.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create notification %s: %w", n.ID, err)
	}
	return nil
}

func (q *queries) ListNotifications(ctx context.Context, recipientID domain.UserID) ([]domain.Notification, error) {
	var rows []notificationRow
	if err := q.sel(ctx, &rows, `
		SELECT id, recipient_id, kind, message, related_id, related_type, is_read, created_at
		FROM notifications WHERE recipient_id = ? ORDER BY seq`, recipientID); err != nil {
		return nil, fmt.Errorf("list notifications of %s: %w", recipientID, err)
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (q *queries) listApplications(ctx context.Context, column string, id uuid.UUID, f repository.ApplicationFilter) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE ` + column + ` = ?`
	args := []any{id}
	if f.Status != nil {
		query += ` AND status = ?`
		args = append(args, *f.Status)
	}
	query += ` ORDER BY seq`

	var rows []applicationRow
	if err := q.sel(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return q.hydrate(ctx, rows)
}

// hydrate attaches notes and interviews to application rows
func (q *queries) hydrate(ctx context.Context, rows []applicationRow) ([]domain.Application, error) {
	out := make([]domain.Application, 0, len(rows))
	for _, r := range rows {
		app, err := r.toDomain()
		if err != nil {
			return nil, err
		}

		var notes []noteRow
		if err := q.sel(ctx, &notes, `
			SELECT application_id, content, author_id, created_at
			FROM application_notes WHERE application_id = ? ORDER BY seq`, app.ID); err != nil {
			return nil, fmt.Errorf("load notes of %s: %w", app.ID, err)
		}
		for _, n := range notes {
			app.Notes = append(app.Notes, domain.Note{Content: n.Content, AuthorID: n.AuthorID, CreatedAt: n.CreatedAt.UTC()})
		}

		var ivs []interviewRow
		if err := q.sel(ctx, &ivs, `
			SELECT application_id, scheduled_at, location, interviewer_ids, type, status, feedback
			FROM application_interviews WHERE application_id = ? ORDER BY seq`, app.ID); err != nil {
			return nil, fmt.Errorf("load interviews of %s: %w", app.ID, err)
		}
		for _, r := range ivs {
			iv, err := r.toDomain()
			if err != nil {
				return nil, fmt.Errorf("decode interview of %s: %w", app.ID, err)
			}
			app.Interviews = append(app.Interviews, iv)
		}

		out = append(out, app)
	}
	return out, nil
}

func (q *queries) upsertJob(ctx context.Context, job domain.Job) error {
	now := time.Now().UTC()
	created, updated := job.CreatedAt, job.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = now
	}

	_, err := q.exec(ctx, `
		INSERT INTO jobs (id, company_id, owner_id, title, location, url, status, application_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			company_id = excluded.company_id,
			owner_id = excluded.owner_id,
			title = excluded.title,
			location = excluded.location,
			url = excluded.url,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		job.ID, job.CompanyID, job.OwnerID, job.Title, job.Location, job.URL, job.Status,
		created.UTC(), updated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", job.ID, err)
	}

	if _, err := q.exec(ctx, `DELETE FROM job_skills WHERE job_id = ?`, job.ID); err != nil {
		return fmt.Errorf("clear job skills %s: %w", job.ID, err)
	}
	if err := q.insertJobSkills(ctx, job.ID, skillRequired, job.RequiredSkills); err != nil {
		return err
	}
	return q.insertJobSkills(ctx, job.ID, skillPreferred, job.PreferredSkills)
}

func (q *queries) insertJobSkills(ctx context.Context, jobID domain.JobID, kind string, skills []domain.SkillID) error {
	for i, s := range skills {
		if _, err := q.exec(ctx, `
			INSERT INTO job_skills (job_id, skill_id, kind, position) VALUES (?, ?, ?, ?)
			ON CONFLICT DO NOTHING`, jobID, s, kind, i); err != nil {
			return fmt.Errorf("insert %s skill for job %s: %w", kind, jobID, err)
		}
	}
	return nil
}

func (q *queries) setCandidateSkills(ctx context.Context, userID domain.UserID, skills []domain.SkillID) error {
	if _, err := q.exec(ctx, `DELETE FROM candidate_skills WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear candidate skills %s: %w", userID, err)
	}
	for _, s := range skills {
		if _, err := q.exec(ctx,
			`INSERT INTO candidate_skills (user_id, skill_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			userID, s); err != nil {
			return fmt.Errorf("insert candidate skill %s: %w", userID, err)
		}
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
