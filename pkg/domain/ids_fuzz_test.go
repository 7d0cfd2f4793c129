//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseRegistrationID checks that parsing never panics on arbitrary
// input and that accepted values round-trip unchanged.
func FuzzParseRegistrationID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE usage_records;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseRegistrationID(input)
		if err == nil {
			roundTrip, err2 := ParseRegistrationID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed the ID value")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseAllIDs ensures every ID kind validates identically: a string is
// either a UUID for all of them or for none of them.
func FuzzParseAllIDs(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("invalid")

	f.Fuzz(func(t *testing.T, input string) {
		_, errEvent := ParseEventID(input)
		_, errRegistration := ParseRegistrationID(input)
		_, errOption := ParseOptionID(input)
		_, errTemplate := ParseTemplateID(input)
		_, errAbstract := ParseAbstractID(input)
		_, errActor := ParseActorID(input)

		failed := errEvent != nil
		for _, err := range []error{errRegistration, errOption, errTemplate, errAbstract, errActor} {
			if (err != nil) != failed {
				t.Error("ID kinds disagree on input validity")
			}
		}
	})
}
