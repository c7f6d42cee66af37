package tools

import (
	"strings"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/domain/application"
	"github.com/honeycarbs/jobmatch/internal/domain/matching"
)

func parseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, domain.Validation("%s is required", field)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Validation("%s: invalid id %q", field, raw)
	}
	return id, nil
}

func parseOptionalID(field, raw string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, nil
	}
	return parseID(field, raw)
}

func parseIDs(field string, raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(field, r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func parseStatus(raw string) (application.Status, error) {
	s, err := domain.ParseApplicationStatus(raw)
	if err != nil {
		return 0, domain.Validation("%v", err)
	}
	return s, nil
}

// parseStatusFilter returns nil for an empty filter
func parseStatusFilter(raw string) (*application.Status, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	s, err := parseStatus(raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func parseTime(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, domain.Validation("%s: expected an RFC 3339 timestamp, got %q", field, raw)
	}
	return t, nil
}

func skillSet(names []string) matching.SkillSet {
	ids := make([]domain.SkillID, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		ids = append(ids, domain.SkillIDFromName(name))
	}
	return matching.NewSkillSet(ids...)
}

// textResult carries a human-readable summary next to the structured output
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: msg}},
	}
}
