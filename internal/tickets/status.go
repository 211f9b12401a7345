package tickets

import (
	"github.com/wrenchworks/mechshop-backend/pkg/enums"
	pkgerrors "github.com/wrenchworks/mechshop-backend/pkg/errors"
)

// nextStatus derives the workflow status from the assignment count. Terminal
// tickets keep their status regardless of edge mutations.
func nextStatus(current enums.TicketStatus, mechanicCount int) enums.TicketStatus {
	if current.IsTerminal() {
		return current
	}
	if mechanicCount > 0 {
		return enums.TicketStatusInProgress
	}
	return enums.TicketStatusOpen
}

// validateManualTransition guards explicit status edits. Only the terminal
// states can be set by hand; open and in_progress are derived from the
// assignment edges and cannot be forced.
func validateManualTransition(current, target enums.TicketStatus) error {
	if !target.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket status")
	}
	if target == current {
		return nil
	}
	if !target.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "status can only be set to completed or cancelled")
	}
	if current.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "ticket is already closed")
	}
	return nil
}
