package neo4j

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

var _ repository.Tx = (*graphTx)(nil)

// graphTx runs cypher inside a single managed transaction
type graphTx struct {
	tx neo4j.ManagedTransaction
}

func (t *graphTx) run(ctx context.Context, query string, params map[string]any) (neo4j.ResultWithContext, error) {
	result, err := t.tx.Run(ctx, query, params)
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// single returns the only record of a query or repository.ErrNotFound
func (t *graphTx) single(ctx context.Context, query string, params map[string]any) (*neo4j.Record, error) {
	result, err := t.run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, classify(err)
		}
		return nil, repository.ErrNotFound
	}
	record := result.Record()
	if _, err := result.Consume(ctx); err != nil {
		return nil, classify(err)
	}
	return record, nil
}

func (t *graphTx) exec(ctx context.Context, query string, params map[string]any) error {
	result, err := t.run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return classify(err)
}

func (t *graphTx) GetJob(ctx context.Context, id domain.JobID) (domain.Job, error) {
	query := `
		MATCH (j:Job {id: $id})
		OPTIONAL MATCH (j)-[r:REQUIRES]->(rs:Skill)
		WITH j, rs ORDER BY r.position
		WITH j, collect(rs.id) AS required
		OPTIONAL MATCH (j)-[p:PREFERS]->(ps:Skill)
		WITH j, required, ps ORDER BY p.position
		RETURN j, required, collect(ps.id) AS preferred
	`
	record, err := t.single(ctx, query, map[string]any{"id": id.String()})
	if err != nil {
		return domain.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}

	node, err := nodeAt(record, "j")
	if err != nil {
		return domain.Job{}, err
	}
	return jobFromNode(node, uuidsAt(record, "required"), uuidsAt(record, "preferred"))
}

func (t *graphTx) IncrementApplicationCounter(ctx context.Context, jobID domain.JobID, applicationID domain.ApplicationID) error {
	query := `
		MATCH (j:Job {id: $jobId})
		SET j.applicationCount = coalesce(j.applicationCount, 0) + 1,
		    j.applications = coalesce(j.applications, []) + $applicationId
		RETURN j.applicationCount AS count
	`
	_, err := t.single(ctx, query, map[string]any{
		"jobId":         jobID.String(),
		"applicationId": applicationID.String(),
	})
	if err != nil {
		return fmt.Errorf("increment counter of job %s: %w", jobID, err)
	}
	return nil
}

func (t *graphTx) GetCandidateSkills(ctx context.Context, userID domain.UserID) ([]domain.SkillID, error) {
	query := `
		OPTIONAL MATCH (:User {id: $id})-[:HAS_SKILL]->(s:Skill)
		RETURN collect(s.id) AS skills
	`
	record, err := t.single(ctx, query, map[string]any{"id": userID.String()})
	if err != nil {
		return nil, fmt.Errorf("get candidate skills %s: %w", userID, err)
	}
	return uuidsAt(record, "skills"), nil
}

// applicationProjection expects the application bound to a
const applicationProjection = `
	OPTIONAL MATCH (a)-[:HAS_NOTE]->(n:Note)
	WITH a, n ORDER BY n.seq
	WITH a, collect(n) AS notes
	OPTIONAL MATCH (a)-[:HAS_INTERVIEW]->(i:Interview)
	WITH a, notes, i ORDER BY i.seq
	RETURN a, notes, collect(i) AS interviews
`

func (t *graphTx) GetApplication(ctx context.Context, id domain.ApplicationID) (domain.Application, error) {
	record, err := t.single(ctx, `MATCH (a:Application {id: $id})`+applicationProjection,
		map[string]any{"id": id.String()})
	if err != nil {
		return domain.Application{}, fmt.Errorf("get application %s: %w", id, err)
	}
	return applicationFromRecord(record)
}

func (t *graphTx) FindApplicationByPair(ctx context.Context, jobID domain.JobID, applicantID domain.UserID) (domain.Application, error) {
	record, err := t.single(ctx, `MATCH (a:Application {pairKey: $pairKey})`+applicationProjection,
		map[string]any{"pairKey": pairKey(jobID, applicantID)})
	if err != nil {
		return domain.Application{}, fmt.Errorf("find application for job %s: %w", jobID, err)
	}
	return applicationFromRecord(record)
}

func (t *graphTx) InsertApplication(ctx context.Context, app domain.Application) error {
	answers := app.Answers
	if answers == nil {
		answers = []domain.Answer{}
	}
	encoded, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}

	query := `
		MATCH (j:Job {id: $jobId})
		CREATE (a:Application {
			id: $id,
			pairKey: $pairKey,
			jobId: $jobId,
			applicantId: $applicantId,
			companyId: $companyId,
			status: $status,
			coverLetter: $coverLetter,
			resumeUrl: $resumeUrl,
			answers: $answers,
			matchScore: $matchScore,
			isWithdrawn: $isWithdrawn,
			withdrawReason: $withdrawReason,
			noteCount: 0,
			interviewCount: 0,
			createdAt: $createdAt,
			updatedAt: $updatedAt
		})
		CREATE (a)-[:FOR_JOB]->(j)
		MERGE (u:User {id: $applicantId})
		CREATE (u)-[:APPLIED]->(a)
		RETURN a.id AS id
	`
	_, err = t.single(ctx, query, map[string]any{
		"id":             app.ID.String(),
		"pairKey":        pairKey(app.JobID, app.ApplicantID),
		"jobId":          app.JobID.String(),
		"applicantId":    app.ApplicantID.String(),
		"companyId":      app.CompanyID.String(),
		"status":         app.Status.String(),
		"coverLetter":    app.CoverLetter,
		"resumeUrl":      app.ResumeURL,
		"answers":        string(encoded),
		"matchScore":     int64(app.MatchScore),
		"isWithdrawn":    app.IsWithdrawn,
		"withdrawReason": app.WithdrawReason,
		"createdAt":      app.CreatedAt.UTC(),
		"updatedAt":      app.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert application %s: %w", app.ID, err)
	}

	for _, n := range app.Notes {
		if err := t.AppendNote(ctx, app.ID, n); err != nil {
			return err
		}
	}
	for _, iv := range app.Interviews {
		if err := t.AppendInterview(ctx, app.ID, iv); err != nil {
			return err
		}
	}
	return nil
}

// UpdateApplicationState write-locks the node before reading its status so
// the comparison and the update see the same version.
func (t *graphTx) UpdateApplicationState(ctx context.Context, u repository.StateUpdate) error {
	lock := `
		MATCH (a:Application {id: $id})
		SET a._lock = true
		REMOVE a._lock
		RETURN a.status AS status
	`
	record, err := t.single(ctx, lock, map[string]any{"id": u.ID.String()})
	if err != nil {
		return fmt.Errorf("lock application %s: %w", u.ID, err)
	}
	current, _ := record.Get("status")
	if current != u.Expected.String() {
		return fmt.Errorf("application %s changed concurrently: %w", u.ID, repository.ErrConflict)
	}

	update := `
		MATCH (a:Application {id: $id})
		SET a.status = $status,
		    a.isWithdrawn = $isWithdrawn,
		    a.withdrawReason = $withdrawReason,
		    a.updatedAt = $updatedAt
	`
	if err := t.exec(ctx, update, map[string]any{
		"id":             u.ID.String(),
		"status":         u.Status.String(),
		"isWithdrawn":    u.IsWithdrawn,
		"withdrawReason": u.WithdrawReason,
		"updatedAt":      u.UpdatedAt.UTC(),
	}); err != nil {
		return fmt.Errorf("update application %s: %w", u.ID, err)
	}
	return nil
}

func (t *graphTx) UpdateMatchScore(ctx context.Context, id domain.ApplicationID, score int, updatedAt time.Time) error {
	query := `
		MATCH (a:Application {id: $id})
		SET a.matchScore = $score, a.updatedAt = $updatedAt
		RETURN a.id AS id
	`
	_, err := t.single(ctx, query, map[string]any{
		"id":        id.String(),
		"score":     int64(score),
		"updatedAt": updatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("update match score of %s: %w", id, err)
	}
	return nil
}

func (t *graphTx) AppendNote(ctx context.Context, id domain.ApplicationID, note domain.Note) error {
	query := `
		MATCH (a:Application {id: $id})
		SET a.noteCount = coalesce(a.noteCount, 0) + 1
		CREATE (a)-[:HAS_NOTE]->(n:Note {
			seq: a.noteCount,
			content: $content,
			authorId: $authorId,
			createdAt: $createdAt
		})
		RETURN n.seq AS seq
	`
	_, err := t.single(ctx, query, map[string]any{
		"id":        id.String(),
		"content":   note.Content,
		"authorId":  note.AuthorID.String(),
		"createdAt": note.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("append note to %s: %w", id, err)
	}
	return nil
}

func (t *graphTx) AppendInterview(ctx context.Context, id domain.ApplicationID, iv domain.Interview) error {
	interviewers := make([]string, 0, len(iv.InterviewerIDs))
	for _, u := range iv.InterviewerIDs {
		interviewers = append(interviewers, u.String())
	}

	query := `
		MATCH (a:Application {id: $id})
		SET a.interviewCount = coalesce(a.interviewCount, 0) + 1
		CREATE (a)-[:HAS_INTERVIEW]->(i:Interview {
			seq: a.interviewCount,
			date: $date,
			location: $location,
			interviewerIds: $interviewerIds,
			type: $type,
			status: $status,
			feedback: $feedback
		})
		RETURN i.seq AS seq
	`
	_, err := t.single(ctx, query, map[string]any{
		"id":             id.String(),
		"date":           iv.Date.UTC(),
		"location":       iv.Location,
		"interviewerIds": interviewers,
		"type":           iv.Type.String(),
		"status":         iv.Status.String(),
		"feedback":       iv.Feedback,
	})
	if err != nil {
		return fmt.Errorf("append interview to %s: %w", id, err)
	}
	return nil
}

func (t *graphTx) CreateNotification(ctx context.Context, n domain.Notification) error {
	query := `
		MERGE (u:User {id: $recipientId})
		SET u.notificationCount = coalesce(u.notificationCount, 0) + 1
		CREATE (n:Notification {
			id: $id,
			seq: u.notificationCount,
			recipientId: $recipientId,
			kind: $kind,
			message: $message,
			relatedId: $relatedId,
			relatedType: $relatedType,
			isRead: $isRead,
			createdAt: $createdAt
		})-[:SENT_TO]->(u)
	`
	err := t.exec(ctx, query, map[string]any{
		"id":          n.ID.String(),
		"recipientId": n.RecipientID.String(),
		"kind":        n.Kind.String(),
		"message":     n.Message,
		"relatedId":   n.RelatedID.String(),
		"relatedType": n.RelatedType,
		"isRead":      n.IsRead,
		"createdAt":   n.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("create notification %s: %w", n.ID, err)
	}
	return nil
}

func (t *graphTx) listNotifications(ctx context.Context, recipientID domain.UserID) ([]domain.Notification, error) {
	query := `
		MATCH (n:Notification {recipientId: $id})
		RETURN n ORDER BY n.seq
	`
	result, err := t.run(ctx, query, map[string]any{"id": recipientID.String()})
	if err != nil {
		return nil, fmt.Errorf("list notifications of %s: %w", recipientID, err)
	}

	out := make([]domain.Notification, 0)
	for result.Next(ctx) {
		node, err := nodeAt(result.Record(), "n")
		if err != nil {
			return nil, err
		}
		n, err := notificationFromNode(node)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *graphTx) listApplications(ctx context.Context, field, value string, f repository.ApplicationFilter) ([]domain.Application, error) {
	var status any
	if f.Status != nil {
		status = f.Status.String()
	}
	query := `
		MATCH (a:Application)
		WHERE a.` + field + ` = $value AND ($status IS NULL OR a.status = $status)
	` + applicationProjection + `
		ORDER BY a.createdAt, a.id
	`

	result, err := t.run(ctx, query, map[string]any{"value": value, "status": status})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	out := make([]domain.Application, 0)
	for result.Next(ctx) {
		app, err := applicationFromRecord(result.Record())
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *graphTx) upsertJob(ctx context.Context, job domain.Job) error {
	now := time.Now().UTC()
	created, updated := job.CreatedAt, job.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = now
	}

	query := `
		MERGE (j:Job {id: $id})
		ON CREATE SET j.applicationCount = 0,
		              j.applications = [],
		              j.createdAt = $createdAt
		SET j.companyId = $companyId,
		    j.ownerId = $ownerId,
		    j.title = $title,
		    j.location = $location,
		    j.url = $url,
		    j.status = $status,
		    j.updatedAt = $updatedAt
		MERGE (c:Company {id: $companyId})
		MERGE (j)-[:OFFERED_BY]->(c)
		WITH j
		OPTIONAL MATCH (j)-[old:REQUIRES|PREFERS]->(:Skill)
		DELETE old
		WITH DISTINCT j
		FOREACH (i IN range(0, size($required) - 1) |
			MERGE (s:Skill {id: $required[i]})
			MERGE (j)-[r:REQUIRES]->(s)
			SET r.position = i
		)
		FOREACH (i IN range(0, size($preferred) - 1) |
			MERGE (s:Skill {id: $preferred[i]})
			MERGE (j)-[p:PREFERS]->(s)
			SET p.position = i
		)
	`
	err := t.exec(ctx, query, map[string]any{
		"id":        job.ID.String(),
		"companyId": job.CompanyID.String(),
		"ownerId":   job.OwnerID.String(),
		"title":     job.Title,
		"location":  job.Location,
		"url":       job.URL,
		"status":    job.Status.String(),
		"required":  uuidStrings(job.RequiredSkills),
		"preferred": uuidStrings(job.PreferredSkills),
		"createdAt": created.UTC(),
		"updatedAt": updated.UTC(),
	})
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", job.ID, err)
	}
	return nil
}

func (t *graphTx) setCandidateSkills(ctx context.Context, userID domain.UserID, skills []domain.SkillID) error {
	query := `
		MERGE (u:User {id: $id})
		WITH u
		OPTIONAL MATCH (u)-[old:HAS_SKILL]->(:Skill)
		DELETE old
		WITH DISTINCT u
		FOREACH (sid IN $skills |
			MERGE (s:Skill {id: sid})
			MERGE (u)-[:HAS_SKILL]->(s)
		)
	`
	err := t.exec(ctx, query, map[string]any{
		"id":     userID.String(),
		"skills": uuidStrings(skills),
	})
	if err != nil {
		return fmt.Errorf("set candidate skills %s: %w", userID, err)
	}
	return nil
}

func pairKey(jobID domain.JobID, applicantID domain.UserID) string {
	return jobID.String() + ":" + applicantID.String()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
