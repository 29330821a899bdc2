package model

import (
	"fmt"

	"github.com/google/uuid"
)

// DecisionList names one of the seven moderation batches in a DecisionSet.
type DecisionList string

const (
	DecisionAcceptedNew      DecisionList = "accepted_new"
	DecisionRejectedNew      DecisionList = "rejected_new"
	DecisionAcceptedModified DecisionList = "accepted_modified"
	DecisionRejectedModified DecisionList = "rejected_modified"
	DecisionAcceptedRemoved  DecisionList = "accepted_removed"
	DecisionRejectedRemoved  DecisionList = "rejected_removed"
	DecisionUnchanged        DecisionList = "unchanged_event_ids"
)

// DecisionLists is the fixed application order of the batches.
var DecisionLists = []DecisionList{
	DecisionAcceptedNew,
	DecisionRejectedNew,
	DecisionAcceptedModified,
	DecisionRejectedModified,
	DecisionAcceptedRemoved,
	DecisionRejectedRemoved,
	DecisionUnchanged,
}

// FlagMutation is the flag update one batch applies. Nil fields are left unchanged.
type FlagMutation struct {
	IsApproved *bool
	IsDeleted  *bool
}

var (
	flagTrue  = true
	flagFalse = false
)

// Mutation returns the flag update for the list.
func (l DecisionList) Mutation() FlagMutation {
	switch l {
	case DecisionAcceptedNew, DecisionAcceptedModified, DecisionRejectedRemoved:
		return FlagMutation{IsApproved: &flagTrue}
	case DecisionRejectedNew, DecisionRejectedModified, DecisionAcceptedRemoved:
		return FlagMutation{IsDeleted: &flagTrue}
	case DecisionUnchanged:
		return FlagMutation{IsApproved: &flagTrue, IsDeleted: &flagFalse}
	default:
		return FlagMutation{}
	}
}

// DecisionSet carries a moderator's batched choices for one diff.
type DecisionSet struct {
	AcceptedNew       []string `json:"accepted_new,omitempty"`
	RejectedNew       []string `json:"rejected_new,omitempty"`
	AcceptedModified  []string `json:"accepted_modified,omitempty"`
	RejectedModified  []string `json:"rejected_modified,omitempty"`
	AcceptedRemoved   []string `json:"accepted_removed,omitempty"`
	RejectedRemoved   []string `json:"rejected_removed,omitempty"`
	UnchangedEventIDs []string `json:"unchanged_event_ids,omitempty"`
}

// IDs returns the ids of one list.
func (d DecisionSet) IDs(list DecisionList) []string {
	switch list {
	case DecisionAcceptedNew:
		return d.AcceptedNew
	case DecisionRejectedNew:
		return d.RejectedNew
	case DecisionAcceptedModified:
		return d.AcceptedModified
	case DecisionRejectedModified:
		return d.RejectedModified
	case DecisionAcceptedRemoved:
		return d.AcceptedRemoved
	case DecisionRejectedRemoved:
		return d.RejectedRemoved
	case DecisionUnchanged:
		return d.UnchangedEventIDs
	default:
		return nil
	}
}

// IsEmpty reports whether no list carries an id.
func (d DecisionSet) IsEmpty() bool {
	for _, l := range DecisionLists {
		if len(d.IDs(l)) > 0 {
			return false
		}
	}
	return true
}

// AllIDs returns the distinct ids across all lists. UUIDs are compared in
// canonical form, so "ABC..." and "abc..." count once.
func (d DecisionSet) AllIDs() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range DecisionLists {
		for _, id := range d.IDs(l) {
			key := canonicalID(id)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Validate checks that every id is a UUID and that no event appears in two
// lists, whatever the spelling of its id. Repeating an id within one list is allowed.
func (d DecisionSet) Validate() error {
	owner := make(map[uuid.UUID]DecisionList)
	for _, l := range DecisionLists {
		for _, id := range d.IDs(l) {
			uid, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("%s: invalid event id %q", l, id)
			}
			if prev, ok := owner[uid]; ok && prev != l {
				return fmt.Errorf("event id %s appears in both %s and %s", uid, prev, l)
			}
			owner[uid] = l
		}
	}
	return nil
}

func canonicalID(id string) string {
	if uid, err := uuid.Parse(id); err == nil {
		return uid.String()
	}
	return id
}

// ApplyOutcome is the explicit result of applying a DecisionSet.
type ApplyOutcome struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Error   string               `json:"error,omitempty"`
	Updated map[DecisionList]int `json:"updated,omitempty"`
}
