// Package moderation governs the legal status transitions of a
// comment. Every admin action is legal from every state; flagged is
// not a dead end. Deletion is not modeled here: it removes the
// comment entity outright and is handled by the comment service.
package moderation

import (
	"fmt"

	"github.com/campus-content-api/internal/models"
)

// Action is an admin moderation action.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionFlag    Action = "flag"
)

// transitions maps each action to the status it produces. All
// actions are reachable from any current status.
var transitions = map[Action]models.CommentStatus{
	ActionApprove: models.StatusApproved,
	ActionReject:  models.StatusRejected,
	ActionFlag:    models.StatusFlagged,
}

// Apply resolves the status an action moves a comment into. The
// current status must be a recognized one, except the empty string,
// which legacy records use to mean an implicit pending.
func Apply(current models.CommentStatus, action Action) (models.CommentStatus, error) {
	if current != "" && !models.ValidStatuses[current] {
		return "", fmt.Errorf("unknown comment status %q", current)
	}
	next, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("unknown moderation action %q", action)
	}
	return next, nil
}

// IsValidAction reports whether the action is a recognized
// moderation action.
func IsValidAction(action Action) bool {
	_, ok := transitions[action]
	return ok
}
