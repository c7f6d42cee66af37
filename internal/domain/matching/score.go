// Package matching computes how well a candidate's skills cover a job's skill sets.
package matching

import (
	"math"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

const (
	RequiredWeight  = 70
	PreferredWeight = 30
	MaxScore        = RequiredWeight + PreferredWeight
)

// SkillSet is a set of skill ids
type SkillSet map[domain.SkillID]struct{}

// NewSkillSet builds a set from ids, dropping duplicates
func NewSkillSet(ids ...domain.SkillID) SkillSet {
	s := make(SkillSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership
func (s SkillSet) Has(id domain.SkillID) bool {
	_, ok := s[id]
	return ok
}

// Overlap counts the members of s also present in other
func (s SkillSet) Overlap(other SkillSet) int {
	n := 0
	for id := range s {
		if other.Has(id) {
			n++
		}
	}
	return n
}

// Score returns the weighted match of candidate against the job's required and
// preferred skills. An empty job set awards its full weight.
func Score(required, preferred, candidate SkillSet) int {
	total := part(RequiredWeight, required, candidate) + part(PreferredWeight, preferred, candidate)
	score := int(math.Round(total))
	switch {
	case score < 0:
		return 0
	case score > MaxScore:
		return MaxScore
	}
	return score
}

// ScoreSkills is Score over plain slices
func ScoreSkills(required, preferred, candidate []domain.SkillID) int {
	return Score(NewSkillSet(required...), NewSkillSet(preferred...), NewSkillSet(candidate...))
}

func part(weight float64, want, have SkillSet) float64 {
	if len(want) == 0 {
		return weight
	}
	return weight * float64(want.Overlap(have)) / float64(len(want))
}
