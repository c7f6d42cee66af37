package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// ApplicationStatus is the review state of an application
type ApplicationStatus uint8

const (
	StatusPending ApplicationStatus = iota + 1
	StatusReviewing
	StatusInterviewed
	StatusOffered
	StatusRejected
	StatusHired
	StatusWithdrawn
)

var applicationStatusNames = []string{"", "pending", "reviewing", "interviewed", "offered", "rejected", "hired", "withdrawn"}

// ApplicationStatuses lists every status in declaration order
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusPending, StatusReviewing, StatusInterviewed, StatusOffered,
		StatusRejected, StatusHired, StatusWithdrawn,
	}
}

func (s ApplicationStatus) String() string { return enumName(applicationStatusNames, int(s)) }

// Valid reports whether s is one of the declared statuses
func (s ApplicationStatus) Valid() bool { return validEnum(applicationStatusNames, int(s)) }

// ParseApplicationStatus parses the textual form of a status
func ParseApplicationStatus(v string) (ApplicationStatus, error) {
	i, err := parseEnum("application status", applicationStatusNames, v)
	return ApplicationStatus(i), err
}

func (s ApplicationStatus) MarshalText() ([]byte, error) { return marshalEnum(s) }

func (s *ApplicationStatus) UnmarshalText(b []byte) error {
	v, err := ParseApplicationStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s ApplicationStatus) Value() (driver.Value, error) { return valueEnum(s) }

func (s *ApplicationStatus) Scan(src any) error {
	text, err := scanText(src)
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(text))
}

// JobStatus is the publication state of a job posting
type JobStatus uint8

const (
	JobDraft JobStatus = iota + 1
	JobActive
	JobPaused
	JobClosed
	JobFilled
)

var jobStatusNames = []string{"", "draft", "active", "paused", "closed", "filled"}

func (s JobStatus) String() string { return enumName(jobStatusNames, int(s)) }

func (s JobStatus) Valid() bool { return validEnum(jobStatusNames, int(s)) }

func ParseJobStatus(v string) (JobStatus, error) {
	i, err := parseEnum("job status", jobStatusNames, v)
	return JobStatus(i), err
}

func (s JobStatus) MarshalText() ([]byte, error) { return marshalEnum(s) }

func (s *JobStatus) UnmarshalText(b []byte) error {
	v, err := ParseJobStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s JobStatus) Value() (driver.Value, error) { return valueEnum(s) }

func (s *JobStatus) Scan(src any) error {
	text, err := scanText(src)
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(text))
}

// NotificationKind classifies notifications emitted by the engine
type NotificationKind uint8

const (
	NotifyNewApplication NotificationKind = iota + 1
	NotifyStatusUpdate
	NotifyApplicationWithdrawn
	NotifyInterviewScheduled
)

var notificationKindNames = []string{"", "newApplication", "statusUpdate", "applicationWithdrawn", "interviewScheduled"}

func (k NotificationKind) String() string { return enumName(notificationKindNames, int(k)) }

func (k NotificationKind) Valid() bool { return validEnum(notificationKindNames, int(k)) }

func ParseNotificationKind(v string) (NotificationKind, error) {
	i, err := parseEnum("notification kind", notificationKindNames, v)
	return NotificationKind(i), err
}

func (k NotificationKind) MarshalText() ([]byte, error) { return marshalEnum(k) }

func (k *NotificationKind) UnmarshalText(b []byte) error {
	v, err := ParseNotificationKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func (k NotificationKind) Value() (driver.Value, error) { return valueEnum(k) }

func (k *NotificationKind) Scan(src any) error {
	text, err := scanText(src)
	if err != nil {
		return err
	}
	return k.UnmarshalText([]byte(text))
}

// InterviewType is the medium of an interview
type InterviewType uint8

const (
	InterviewPhone InterviewType = iota + 1
	InterviewVideo
	InterviewInPerson
)

var interviewTypeNames = []string{"", "phone", "video", "in-person"}

func (t InterviewType) String() string { return enumName(interviewTypeNames, int(t)) }

func (t InterviewType) Valid() bool { return validEnum(interviewTypeNames, int(t)) }

func ParseInterviewType(v string) (InterviewType, error) {
	i, err := parseEnum("interview type", interviewTypeNames, v)
	return InterviewType(i), err
}

func (t InterviewType) MarshalText() ([]byte, error) { return marshalEnum(t) }

func (t *InterviewType) UnmarshalText(b []byte) error {
	v, err := ParseInterviewType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// InterviewStatus tracks an interview record
type InterviewStatus uint8

const (
	InterviewScheduled InterviewStatus = iota + 1
	InterviewCompleted
	InterviewCanceled
	InterviewRescheduled
)

var interviewStatusNames = []string{"", "scheduled", "completed", "canceled", "rescheduled"}

func (s InterviewStatus) String() string { return enumName(interviewStatusNames, int(s)) }

func (s InterviewStatus) Valid() bool { return validEnum(interviewStatusNames, int(s)) }

func ParseInterviewStatus(v string) (InterviewStatus, error) {
	i, err := parseEnum("interview status", interviewStatusNames, v)
	return InterviewStatus(i), err
}

func (s InterviewStatus) MarshalText() ([]byte, error) { return marshalEnum(s) }

func (s *InterviewStatus) UnmarshalText(b []byte) error {
	v, err := ParseInterviewStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type textEnum interface {
	fmt.Stringer
	Valid() bool
}

func enumName(names []string, i int) string {
	if i <= 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func validEnum(names []string, i int) bool {
	return i > 0 && i < len(names)
}

func parseEnum(what string, names []string, v string) (int, error) {
	v = strings.TrimSpace(v)
	for i := 1; i < len(names); i++ {
		if strings.EqualFold(names[i], v) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, v)
}

func marshalEnum(e textEnum) ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid value %q", e.String())
	}
	return []byte(e.String()), nil
}

func valueEnum(e textEnum) (driver.Value, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("cannot store invalid value %q", e.String())
	}
	return e.String(), nil
}

func scanText(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into enum", src)
	}
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
