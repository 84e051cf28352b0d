package entsync

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	"inkwell/model"
)

var ErrValidation = errors.New("action rejected")

// ValidationError carries every problem found in rejected action.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrValidation, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Problems returns individual validation failures.
func (e *ValidationError) Problems() []error {
	return multierr.Errors(e.Err)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func structErrors(what string, v any) error {
	err := validate.Struct(v)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var errs error
	for _, fe := range verrs {
		if fe.Param() != "" {
			errs = multierr.Append(errs, fmt.Errorf("%s: field '%s' failed rule '%s=%s'", what, fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		errs = multierr.Append(errs, fmt.Errorf("%s: field '%s' failed rule '%s'", what, fe.Namespace(), fe.Tag()))
	}
	return errs
}

func checkDate(what, field, value string) error {
	if _, err := model.NormalizeDate(value); err != nil {
		return fmt.Errorf("%s: %s: %w", what, field, err)
	}
	return nil
}

// Validate checks action against current snapshot. All problems are
// reported at once, nil means the action could be applied.
func Validate(snap *model.Snapshot, a *Action) error {
	var errs error
	if !a.Op.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("operation %q: %w", a.Op, ErrInvalidOp))
	}

	switch a.Entity {
	case EntityCharacter:
		errs = multierr.Append(errs, validateCharacter(snap, a))
	case EntityEvent:
		errs = multierr.Append(errs, validateEvent(snap, a))
	case EntityRelationship:
		errs = multierr.Append(errs, validateRelationship(snap, a))
	default:
		errs = multierr.Append(errs, fmt.Errorf("entity %q: %w", a.Entity, ErrInvalidEntity))
	}

	if errs != nil {
		return &ValidationError{Err: errs}
	}
	return nil
}

func checkExistence(what string, op Op, exists bool) error {
	switch {
	case op == OpAdd && exists:
		return fmt.Errorf("%s already exists", what)
	case op != OpAdd && !exists:
		return fmt.Errorf("%s does not exist", what)
	}
	return nil
}

func validateCharacter(snap *model.Snapshot, a *Action) error {
	c := a.Character
	if c == nil {
		return errors.New("character is missing")
	}
	what := fmt.Sprintf("character %q", c.ID)
	errs := checkExistence(what, a.Op, c.ID != "" && snap.Character(c.ID) != nil)
	if a.Op == OpDelete {
		return errs
	}

	errs = multierr.Append(errs, structErrors(what, c))
	errs = multierr.Append(errs, checkDate(what, "dob", c.DOB))
	errs = multierr.Append(errs, checkDate(what, "death_date", c.DeathDate))
	for _, le := range c.LifeEvents {
		lwhat := fmt.Sprintf("%s life event %q", what, le.ID)
		if !le.Type.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("%s: type %q: %w", lwhat, le.Type, model.ErrInvalidLifeEventType))
		}
		errs = multierr.Append(errs, checkDate(lwhat, "date", le.Date))
		if !slices.Contains(le.Characters, c.ID) {
			errs = multierr.Append(errs, fmt.Errorf("%s: character is not a participant", lwhat))
		}
		for _, id := range le.Characters {
			if id != c.ID && snap.Character(id) == nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: unknown participant %q", lwhat, id))
			}
		}
		if le.Type == model.LifeEventTypeBirthOfChild && (le.ChildID == "" || !slices.Contains(le.Characters, le.ChildID)) {
			errs = multierr.Append(errs, fmt.Errorf("%s: child must be one of participants", lwhat))
		}
	}
	return errs
}

func validateEvent(snap *model.Snapshot, a *Action) error {
	e := a.Event
	if e == nil {
		return errors.New("event is missing")
	}
	what := fmt.Sprintf("event %q", e.ID)
	errs := checkExistence(what, a.Op, e.ID != "" && snap.Event(e.ID) != nil)
	if a.Op == OpDelete {
		return errs
	}

	errs = multierr.Append(errs, structErrors(what, e))
	errs = multierr.Append(errs, checkDate(what, "date", e.Date))
	for _, id := range e.Characters {
		if snap.Character(id) == nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: unknown participant %q", what, id))
		}
	}
	if a.LifeEventType != "" {
		if !a.LifeEventType.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("%s: life event type %q: %w", what, a.LifeEventType, model.ErrInvalidLifeEventType))
		}
		if len(existing(e.Characters, snap.Characters)) < 2 {
			errs = multierr.Append(errs, fmt.Errorf("%s: life event needs at least two participants", what))
		}
	}
	return errs
}

func validateRelationship(snap *model.Snapshot, a *Action) error {
	r := a.Relationship
	if r == nil {
		return errors.New("relationship is missing")
	}
	what := fmt.Sprintf("relationship %q", r.ID)
	errs := checkExistence(what, a.Op, r.ID != "" && snap.Relationship(r.ID) != nil)
	if a.Op == OpDelete {
		return errs
	}

	errs = multierr.Append(errs, structErrors(what, r))
	if !r.Type.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("%s: type %q: %w", what, r.Type, model.ErrInvalidRelationshipType))
	}
	errs = multierr.Append(errs, checkDate(what, "start_date", r.StartDate))
	errs = multierr.Append(errs, checkDate(what, "end_date", r.EndDate))
	for _, id := range r.CharacterIDs {
		if snap.Character(id) == nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: unknown participant %q", what, id))
		}
	}
	if len(existing(r.CharacterIDs, snap.Characters)) < 2 {
		errs = multierr.Append(errs, fmt.Errorf("%s: needs at least two distinct characters", what))
	}
	if r.Type == model.RelationshipTypeParentChild && len(r.CharacterIDs) != 2 {
		errs = multierr.Append(errs, fmt.Errorf("%s: parent-child needs exactly parent and child", what))
	}
	return errs
}
