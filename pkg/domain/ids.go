package domain

import (
	"github.com/google/uuid"

	dErrors "eventops/pkg/domainerrors"
)

// Typed IDs keep the redemption pipeline honest about which entity an
// identifier refers to. Construct via the Parse helpers at trust boundaries;
// direct conversion bypasses validation.
type (
	EventID        uuid.UUID
	RegistrationID uuid.UUID
	OptionID       uuid.UUID
	TemplateID     uuid.UUID
	AbstractID     uuid.UUID
	RecordID       uuid.UUID
	ActorID        uuid.UUID
)

func parse(kind, s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid "+kind+" id")
	}
	return u, nil
}

func ParseEventID(s string) (EventID, error) {
	u, err := parse("event", s)
	return EventID(u), err
}

func ParseRegistrationID(s string) (RegistrationID, error) {
	u, err := parse("registration", s)
	return RegistrationID(u), err
}

func ParseOptionID(s string) (OptionID, error) {
	u, err := parse("option", s)
	return OptionID(u), err
}

func ParseTemplateID(s string) (TemplateID, error) {
	u, err := parse("template", s)
	return TemplateID(u), err
}

func ParseAbstractID(s string) (AbstractID, error) {
	u, err := parse("abstract", s)
	return AbstractID(u), err
}

func ParseActorID(s string) (ActorID, error) {
	u, err := parse("actor", s)
	return ActorID(u), err
}

func NewRecordID() RecordID { return RecordID(uuid.New()) }

func (id EventID) String() string        { return uuid.UUID(id).String() }
func (id RegistrationID) String() string { return uuid.UUID(id).String() }
func (id OptionID) String() string       { return uuid.UUID(id).String() }
func (id TemplateID) String() string     { return uuid.UUID(id).String() }
func (id AbstractID) String() string     { return uuid.UUID(id).String() }
func (id RecordID) String() string       { return uuid.UUID(id).String() }
func (id ActorID) String() string        { return uuid.UUID(id).String() }

func (id EventID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id RegistrationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id OptionID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id TemplateID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id AbstractID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ActorID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
