package domain

import "github.com/google/uuid"

// Text marshaling so typed ids serialize as canonical UUID strings in JSON
// payloads and map keys instead of raw byte arrays.

func (id EventID) MarshalText() ([]byte, error) { return []byte(uuid.UUID(id).String()), nil }
func (id *EventID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = EventID(u)
	return err
}

func (id RegistrationID) MarshalText() ([]byte, error) { return []byte(uuid.UUID(id).String()), nil }
func (id *RegistrationID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = RegistrationID(u)
	return err
}

func (id OptionID) MarshalText() ([]byte, error) { return []byte(uuid.UUID(id).String()), nil }
func (id *OptionID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = OptionID(u)
	return err
}

func (id TemplateID) MarshalText() ([]byte, error) { return []byte(uuid.UUID(id).String()), nil }
func (id *TemplateID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = TemplateID(u)
	return err
}

func (id AbstractID) MarshalText() ([]byte, error) { return []byte(uuid.UUID(id).String()), nil }
func (id *AbstractID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = AbstractID(u)
	return err
}

func (id RecordID) MarshalText() ([]byte, error) { return []byte(uuid.UUID(id).String()), nil }
func (id *RecordID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = RecordID(u)
	return err
}

func (id ActorID) MarshalText() ([]byte, error) { return []byte(uuid.UUID(id).String()), nil }
func (id *ActorID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = ActorID(u)
	return err
}
