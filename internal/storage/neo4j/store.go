package neo4j

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"

	pkgneo4j "github.com/honeycarbs/jobmatch/pkg/neo4j"
)

// Ensure Store implements repository.Store
var _ repository.Store = (*Store)(nil)

const constraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

var schema = []string{
	`CREATE CONSTRAINT job_id IF NOT EXISTS FOR (j:Job) REQUIRE j.id IS UNIQUE`,
	`CREATE CONSTRAINT skill_id IF NOT EXISTS FOR (s:Skill) REQUIRE s.id IS UNIQUE`,
	`CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
	`CREATE CONSTRAINT company_id IF NOT EXISTS FOR (c:Company) REQUIRE c.id IS UNIQUE`,
	`CREATE CONSTRAINT application_id IF NOT EXISTS FOR (a:Application) REQUIRE a.id IS UNIQUE`,
	`CREATE CONSTRAINT application_pair IF NOT EXISTS FOR (a:Application) REQUIRE a.pairKey IS UNIQUE`,
	`CREATE CONSTRAINT notification_id IF NOT EXISTS FOR (n:Notification) REQUIRE n.id IS UNIQUE`,
	`CREATE INDEX application_job IF NOT EXISTS FOR (a:Application) ON (a.jobId)`,
	`CREATE INDEX application_applicant IF NOT EXISTS FOR (a:Application) ON (a.applicantId)`,
	`CREATE INDEX notification_recipient IF NOT EXISTS FOR (n:Notification) ON (n.recipientId)`,
}

// Store implements repository.Store on a Neo4j graph
type Store struct {
	client *pkgneo4j.Client
}

// NewStore creates a Store with a Neo4j client
func NewStore(client *pkgneo4j.Client) *Store {
	return &Store{client: client}
}

// EnsureSchema creates the uniqueness constraints the engine relies on
func (s *Store) EnsureSchema(ctx context.Context) error {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range schema {
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			result, err := tx.Run(ctx, stmt, nil)
			if err != nil {
				return nil, err
			}
			return result.Consume(ctx)
		})
		if err != nil {
			return fmt.Errorf("failed to apply schema statement %q: %w", stmt, err)
		}
	}
	return nil
}

// WithinTx runs fn inside a managed write transaction. The driver may re-run
// fn on transient cluster errors, so fn must not keep state across attempts.
func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(ctx, &graphTx{tx: tx})
	})
	return err
}

func (s *Store) read(ctx context.Context, fn func(*graphTx) error) error {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(&graphTx{tx: tx})
	})
	return err
}

func (s *Store) GetJob(ctx context.Context, id domain.JobID) (job domain.Job, err error) {
	err = s.read(ctx, func(tx *graphTx) error {
		job, err = tx.GetJob(ctx, id)
		return err
	})
	return job, err
}

func (s *Store) GetApplication(ctx context.Context, id domain.ApplicationID) (app domain.Application, err error) {
	err = s.read(ctx, func(tx *graphTx) error {
		app, err = tx.GetApplication(ctx, id)
		return err
	})
	return app, err
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID domain.JobID, f repository.ApplicationFilter) (apps []domain.Application, err error) {
	err = s.read(ctx, func(tx *graphTx) error {
		apps, err = tx.listApplications(ctx, "jobId", jobID.String(), f)
		return err
	})
	return apps, err
}

func (s *Store) ListApplicationsByApplicant(ctx context.Context, applicantID domain.UserID, f repository.ApplicationFilter) (apps []domain.Application, err error) {
	err = s.read(ctx, func(tx *graphTx) error {
		apps, err = tx.listApplications(ctx, "applicantId", applicantID.String(), f)
		return err
	})
	return apps, err
}

func (s *Store) ListNotifications(ctx context.Context, recipientID domain.UserID) (ns []domain.Notification, err error) {
	err = s.read(ctx, func(tx *graphTx) error {
		ns, err = tx.listNotifications(ctx, recipientID)
		return err
	})
	return ns, err
}

func (s *Store) UpsertJob(ctx context.Context, job domain.Job) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.(*graphTx).upsertJob(ctx, job)
	})
}

func (s *Store) SetCandidateSkills(ctx context.Context, userID domain.UserID, skills []domain.SkillID) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.(*graphTx).setCandidateSkills(ctx, userID, skills)
	})
}

// Close is a no-op; the client is owned by whoever created it
func (s *Store) Close(context.Context) error { return nil }

func classify(err error) error {
	if err == nil {
		return nil
	}
	var ne *neo4j.Neo4jError
	if errors.As(err, &ne) && ne.Code == constraintViolation {
		return fmt.Errorf("%w: %w", repository.ErrUniqueViolation, err)
	}
	return err
}
