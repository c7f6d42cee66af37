package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

func TestErrorMatchesByCode(t *testing.T) {
	err := domain.Wrap(domain.ErrJobInactive, "job 42 is paused", nil)
	wrapped := fmt.Errorf("submit: %w", err)

	assert.ErrorIs(t, wrapped, domain.ErrJobInactive)
	assert.NotErrorIs(t, wrapped, domain.ErrJobNotFound)
	assert.Equal(t, domain.KindState, domain.KindOf(wrapped))
	assert.Equal(t, "job_inactive", domain.CodeOf(wrapped))
}

func TestDependencyUnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := domain.Dependency("insert application", cause)

	assert.ErrorIs(t, err, domain.ErrDependency)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, domain.KindDependency, domain.KindOf(err))
	assert.Equal(t, "insert application: disk full", err.Error())
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, domain.KindUnknown, domain.KindOf(errors.New("boom")))
	assert.Empty(t, domain.CodeOf(nil))
}

func TestValidationMessage(t *testing.T) {
	err := domain.Validation("answer %d has an empty question", 2)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "answer 2 has an empty question", err.Error())
}

func TestEnumTextRoundTrip(t *testing.T) {
	for _, s := range domain.ApplicationStatuses() {
		b, err := s.MarshalText()
		assert.NoError(t, err)

		var got domain.ApplicationStatus
		assert.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, s, got)
	}

	_, err := domain.ParseApplicationStatus("archived")
	assert.Error(t, err)

	var zero domain.ApplicationStatus
	_, err = zero.MarshalText()
	assert.Error(t, err)
}

func TestParseIsCaseInsensitive(t *testing.T) {
	k, err := domain.ParseNotificationKind("NEWAPPLICATION")
	assert.NoError(t, err)
	assert.Equal(t, domain.NotifyNewApplication, k)

	it, err := domain.ParseInterviewType(" in-person ")
	assert.NoError(t, err)
	assert.Equal(t, domain.InterviewInPerson, it)
}

func TestDerivedIDsAreStable(t *testing.T) {
	assert.Equal(t, domain.SkillIDFromName("Go"), domain.SkillIDFromName("  go "))
	assert.NotEqual(t, domain.SkillIDFromName("go"), domain.SkillIDFromName("rust"))
	assert.Equal(t, domain.JobIDFromExternal("adzuna", "1"), domain.JobIDFromExternal("Adzuna", "1"))
}
