package domain

import (
	"fmt"
	"strings"
)

// ViewScope selects the base collection and the lifecycle actions that apply.
type ViewScope string

const (
	ScopeActive     ViewScope = "active"
	ScopeArchived   ViewScope = "archived"
	ScopeTrash      ViewScope = "trash"
	ScopePinnedOnly ViewScope = "pinned"
)

// ParseScope accepts the scope names case-insensitively. Empty means active.
func ParseScope(s string) (ViewScope, error) {
	switch ViewScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeActive:
		return ScopeActive, nil
	case ScopeArchived:
		return ScopeArchived, nil
	case ScopeTrash:
		return ScopeTrash, nil
	case ScopePinnedOnly:
		return ScopePinnedOnly, nil
	default:
		return "", fmt.Errorf("unknown view scope %q", s)
	}
}

// Action is a user-initiated lifecycle operation.
type Action string

const (
	ActionArchive         Action = "archive"
	ActionPin             Action = "pin"
	ActionDelete          Action = "delete"
	ActionRestore         Action = "restore"
	ActionPermanentDelete Action = "permanent-delete"
	ActionEmptyTrash      Action = "empty-trash"
	ActionBulkDelete      Action = "bulk-delete"
	ActionBulkArchive     Action = "bulk-archive"
	ActionEdit            Action = "edit"
)

// Allows reports whether the action is offered in the scope.
func (s ViewScope) Allows(a Action) bool {
	if s == ScopeTrash {
		switch a {
		case ActionRestore, ActionPermanentDelete, ActionEmptyTrash:
			return true
		default:
			return false
		}
	}
	switch a {
	case ActionRestore, ActionPermanentDelete, ActionEmptyTrash:
		return false
	default:
		return true
	}
}

// NeedsConfirmation reports whether the action must pass the confirmation gate.
func (a Action) NeedsConfirmation() bool {
	switch a {
	case ActionDelete, ActionBulkDelete, ActionPermanentDelete, ActionEmptyTrash:
		return true
	default:
		return false
	}
}

// InScope reports whether r belongs to the base collection of s.
func (s ViewScope) InScope(r Resource) bool {
	switch s {
	case ScopeTrash:
		return r.IsDeleted
	case ScopeArchived:
		return !r.IsDeleted && r.IsArchived
	default:
		return !r.IsDeleted && !r.IsArchived
	}
}
