package models

import (
	"errors"
	"fmt"
)

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrPickNotFound   = errors.New("draft pick not found")
	// ErrNoSolution is for surfaces that need an error value for "no trade
	// found"; the engine itself reports it as a nil result.
	ErrNoSolution = errors.New("no acceptable trade found")
)

// InvalidAssetError means a referenced player or pick does not exist or is
// not owned by the side that lists it.
type InvalidAssetError struct {
	Kind   AssetKind
	ID     int
	TeamID int
	Reason string
}

func (e *InvalidAssetError) Error() string {
	return fmt.Sprintf("invalid %s %d for team %d: %s", e.Kind, e.ID, e.TeamID, e.Reason)
}

// ConstraintViolation is a blocking legality warning promoted to an error for
// the commit layer, which is the only place it is enforced.
type ConstraintViolation struct {
	TeamID  int
	Code    WarningCode
	Message string
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violation (%s) for team %d: %s", e.Code, e.TeamID, e.Message)
}

// Violations converts the blocking warnings into a joined error, or nil.
func Violations(warnings []Warning) error {
	var errs []error
	for _, w := range warnings {
		if w.Blocking {
			errs = append(errs, &ConstraintViolation{TeamID: w.TeamID, Code: w.Code, Message: w.Message})
		}
	}
	return errors.Join(errs...)
}
