package application

import "github.com/honeycarbs/jobmatch/internal/domain"

// Status is the review state of an application
type Status = domain.ApplicationStatus

var transitions = map[Status][]Status{
	domain.StatusPending:     {domain.StatusReviewing, domain.StatusRejected},
	domain.StatusReviewing:   {domain.StatusInterviewed, domain.StatusRejected},
	domain.StatusInterviewed: {domain.StatusOffered, domain.StatusRejected},
	domain.StatusOffered:     {domain.StatusHired, domain.StatusRejected},
}

// CanTransition reports whether a status change request may move current to requested.
// Withdrawal is not reachable from here, see CanWithdraw.
func CanTransition(current, requested Status) bool {
	for _, next := range transitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// CanWithdraw reports whether the applicant may still withdraw
func CanWithdraw(current Status) bool {
	return current.Valid() && !IsTerminal(current)
}

// IsTerminal reports whether no further change is possible
func IsTerminal(s Status) bool {
	switch s {
	case domain.StatusHired, domain.StatusRejected, domain.StatusWithdrawn:
		return true
	case domain.StatusPending, domain.StatusReviewing, domain.StatusInterviewed, domain.StatusOffered:
		return false
	default:
		return false
	}
}

// NextStatuses lists the states a status change may move current to
func NextStatuses(current Status) []Status {
	next := transitions[current]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}
