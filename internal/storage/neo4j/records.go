package neo4j

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

func nodeAt(record *neo4j.Record, key string) (neo4j.Node, error) {
	val, ok := record.Get(key)
	if !ok {
		return neo4j.Node{}, fmt.Errorf("record has no %q", key)
	}
	node, ok := val.(neo4j.Node)
	if !ok {
		return neo4j.Node{}, fmt.Errorf("%q is %T, not a node", key, val)
	}
	return node, nil
}

func nodesAt(record *neo4j.Record, key string) []neo4j.Node {
	val, ok := record.Get(key)
	if !ok {
		return nil
	}
	list, ok := val.([]any)
	if !ok {
		return nil
	}
	out := make([]neo4j.Node, 0, len(list))
	for _, v := range list {
		if n, ok := v.(neo4j.Node); ok {
			out = append(out, n)
		}
	}
	return out
}

func uuidsAt(record *neo4j.Record, key string) []uuid.UUID {
	val, ok := record.Get(key)
	if !ok {
		return nil
	}
	return uuidList(val)
}

func uuidList(val any) []uuid.UUID {
	list, ok := val.([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]uuid.UUID, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func str(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func integer(props map[string]any, key string) int {
	n, _ := props[key].(int64)
	return int(n)
}

func boolean(props map[string]any, key string) bool {
	b, _ := props[key].(bool)
	return b
}

func timestamp(props map[string]any, key string) time.Time {
	switch v := props[key].(type) {
	case time.Time:
		return v.UTC()
	case neo4j.LocalDateTime:
		return v.Time().UTC()
	default:
		return time.Time{}
	}
}

func parseID(props map[string]any, key string) (uuid.UUID, error) {
	raw := str(props, key)
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return parsed, nil
}

func jobFromNode(node neo4j.Node, required, preferred []uuid.UUID) (domain.Job, error) {
	p := node.Props
	j := domain.Job{
		Title:            str(p, "title"),
		Location:         str(p, "location"),
		URL:              str(p, "url"),
		ApplicationCount: integer(p, "applicationCount"),
		Applications:     uuidList(p["applications"]),
		RequiredSkills:   required,
		PreferredSkills:  preferred,
		CreatedAt:        timestamp(p, "createdAt"),
		UpdatedAt:        timestamp(p, "updatedAt"),
	}
	var err error
	if j.ID, err = parseID(p, "id"); err != nil {
		return domain.Job{}, err
	}
	if j.CompanyID, err = parseID(p, "companyId"); err != nil {
		return domain.Job{}, err
	}
	if j.OwnerID, err = parseID(p, "ownerId"); err != nil {
		return domain.Job{}, err
	}
	if j.Status, err = domain.ParseJobStatus(str(p, "status")); err != nil {
		return domain.Job{}, err
	}
	return j, nil
}

func applicationFromRecord(record *neo4j.Record) (domain.Application, error) {
	node, err := nodeAt(record, "a")
	if err != nil {
		return domain.Application{}, err
	}
	p := node.Props

	a := domain.Application{
		CoverLetter:    str(p, "coverLetter"),
		ResumeURL:      str(p, "resumeUrl"),
		MatchScore:     integer(p, "matchScore"),
		IsWithdrawn:    boolean(p, "isWithdrawn"),
		WithdrawReason: str(p, "withdrawReason"),
		CreatedAt:      timestamp(p, "createdAt"),
		UpdatedAt:      timestamp(p, "updatedAt"),
	}
	if a.ID, err = parseID(p, "id"); err != nil {
		return domain.Application{}, err
	}
	if a.JobID, err = parseID(p, "jobId"); err != nil {
		return domain.Application{}, err
	}
	if a.ApplicantID, err = parseID(p, "applicantId"); err != nil {
		return domain.Application{}, err
	}
	if a.CompanyID, err = parseID(p, "companyId"); err != nil {
		return domain.Application{}, err
	}
	if a.Status, err = domain.ParseApplicationStatus(str(p, "status")); err != nil {
		return domain.Application{}, err
	}
	if raw := str(p, "answers"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &a.Answers); err != nil {
			return domain.Application{}, fmt.Errorf("decoding answers of %s: %w", a.ID, err)
		}
		if len(a.Answers) == 0 {
			a.Answers = nil
		}
	}

	for _, n := range nodesAt(record, "notes") {
		author, _ := uuid.Parse(str(n.Props, "authorId"))
		a.Notes = append(a.Notes, domain.Note{
			Content:   str(n.Props, "content"),
			AuthorID:  author,
			CreatedAt: timestamp(n.Props, "createdAt"),
		})
	}

	for _, n := range nodesAt(record, "interviews") {
		iv := domain.Interview{
			Date:           timestamp(n.Props, "date"),
			Location:       str(n.Props, "location"),
			InterviewerIDs: uuidList(n.Props["interviewerIds"]),
			Feedback:       str(n.Props, "feedback"),
		}
		if iv.Type, err = domain.ParseInterviewType(str(n.Props, "type")); err != nil {
			return domain.Application{}, err
		}
		if iv.Status, err = domain.ParseInterviewStatus(str(n.Props, "status")); err != nil {
			return domain.Application{}, err
		}
		a.Interviews = append(a.Interviews, iv)
	}
	return a, nil
}

func notificationFromNode(node neo4j.Node) (domain.Notification, error) {
	p := node.Props
	n := domain.Notification{
		Message:     str(p, "message"),
		RelatedType: str(p, "relatedType"),
		IsRead:      boolean(p, "isRead"),
		CreatedAt:   timestamp(p, "createdAt"),
	}
	var err error
	if n.ID, err = parseID(p, "id"); err != nil {
		return domain.Notification{}, err
	}
	if n.RecipientID, err = parseID(p, "recipientId"); err != nil {
		return domain.Notification{}, err
	}
	if n.RelatedID, err = parseID(p, "relatedId"); err != nil {
		return domain.Notification{}, err
	}
	if n.Kind, err = domain.ParseNotificationKind(str(p, "kind")); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}
