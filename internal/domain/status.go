package domain

import "strings"

// POStatus is the lifecycle state of a purchase order.
type POStatus string

const (
	POStatusDraft     POStatus = "draft"
	POStatusSubmitted POStatus = "submitted"
	POStatusApproved  POStatus = "approved"
	POStatusOrdered   POStatus = "ordered"
	POStatusReceived  POStatus = "received"
)

// poTransitions is the only set of legal edges: a strictly linear chain.
var poTransitions = map[POStatus]POStatus{
	POStatusDraft:     POStatusSubmitted,
	POStatusSubmitted: POStatusApproved,
	POStatusApproved:  POStatusOrdered,
	POStatusOrdered:   POStatusReceived,
}

// NextPOStatus returns the status that follows s, if any.
func NextPOStatus(s POStatus) (POStatus, bool) {
	next, ok := poTransitions[s]
	return next, ok
}

// CanTransition reports whether from -> to is a legal single-step advance.
func CanTransition(from, to POStatus) bool {
	next, ok := poTransitions[from]
	return ok && next == to
}

// ParsePOStatus returns the status for a given label (case-insensitive).
func ParsePOStatus(label string) (POStatus, bool) {
	s := POStatus(strings.ToLower(strings.TrimSpace(label)))
	switch s {
	case POStatusDraft, POStatusSubmitted, POStatusApproved, POStatusOrdered, POStatusReceived:
		return s, true
	}
	return "", false
}
