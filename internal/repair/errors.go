package repair

import (
	"fmt"

	"draftdesk/internal/domain"
)

// UnrepairableError is returned when a repaired bundle still fails
// validation after the forced-default pass. It signals an engine defect, not
// bad input, and carries the findings that survived both passes.
type UnrepairableError struct {
	Findings []domain.ValidationFinding
}

func (e *UnrepairableError) Error() string {
	if len(e.Findings) == 0 {
		return domain.ErrUnrepairable.Error()
	}
	first := e.Findings[0]
	return fmt.Sprintf("%s: %d finding(s), first at %s: %s",
		domain.ErrUnrepairable.Error(), len(e.Findings), first.Path, first.Message)
}

func (e *UnrepairableError) Unwrap() error {
	return domain.ErrUnrepairable
}
