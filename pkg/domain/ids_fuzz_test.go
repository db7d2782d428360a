package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseOverrideID checks that parsing never panics and that accepted IDs round-trip.
func FuzzParseOverrideID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseOverrideID(input)
		if err == nil {
			roundTrip, err2 := ParseOverrideID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed ID value")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}

		_, errAudit := ParseAuditEntryID(input)
		if (err == nil) != (errAudit == nil) {
			t.Error("inconsistent parsing across ID types")
		}
	})
}
