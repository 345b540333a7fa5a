package share

import (
	"encoding/base64"
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/five82/kidplan/internal/schedule"
)

func sampleSchedule() schedule.Schedule {
	var s schedule.Store
	s.UpsertRange(schedule.MustParseDate("2023-12-30"), schedule.MustParseDate("2024-01-03"), schedule.ParentCarine, "ski")
	s.UpsertSingle(schedule.MustParseDate("2024-01-01"), schedule.ParentRobert, "réveillon & \"fireworks\"")
	s.UpsertSingle(schedule.MustParseDate("2024-02-29"), schedule.ParentNone, "")
	return s.Snapshot()
}

func TestRoundTrip(t *testing.T) {
	cases := map[string]schedule.Schedule{
		"empty":  {},
		"nil":    nil,
		"sample": sampleSchedule(),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			token := Encode(in)
			got, err := Decode(token)
			if err != nil {
				t.Fatalf("Decode(Encode(s)) returned error: %v", err)
			}
			if !maps.Equal(got, in) {
				t.Fatalf("round trip = %#v, want %#v", got, in)
			}
			if got == nil {
				t.Fatalf("Decode returned nil schedule for a valid token")
			}
		})
	}
}

func TestEncodeIsFragmentSafe(t *testing.T) {
	token := Encode(sampleSchedule())
	if strings.ContainsAny(token, "+/=#&? ") {
		t.Fatalf("token %q contains characters unsafe in a fragment", token)
	}
}

func TestDecodeAcceptsStandardBase64(t *testing.T) {
	payload := `{"2024-03-10":{"date":"2024-03-10","parent":"CARINE","notes":""}}`
	token := base64.StdEncoding.EncodeToString([]byte(payload))

	got, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	day := schedule.MustParseDate("2024-03-10")
	if got[day].Parent != schedule.ParentCarine {
		t.Fatalf("Decode = %#v, want CARINE on %s", got, day)
	}
}

func TestDecodeLatin1Payload(t *testing.T) {
	// btoa output for a note typed as "école".
	payload := "{\"2024-03-10\":{\"date\":\"2024-03-10\",\"parent\":\"CARINE\",\"notes\":\"\xe9cole\"}}"
	token := base64.StdEncoding.EncodeToString([]byte(payload))

	got, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if notes := got[schedule.MustParseDate("2024-03-10")].Notes; notes != "école" {
		t.Fatalf("notes = %q, want %q", notes, "école")
	}
}

func TestRoundTrip_InvalidUTF8Notes(t *testing.T) {
	var store schedule.Store
	day := schedule.MustParseDate("2024-03-10")
	s := store.UpsertSingle(day, schedule.ParentRobert, "a\xffb")

	got, err := Decode(Encode(s))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if !maps.Equal(got, s) {
		t.Fatalf("Decode(Encode(s)) = %#v, want %#v", got, s)
	}
}

func TestDecodeMissingNotesDefaultsEmpty(t *testing.T) {
	token := base64.RawURLEncoding.EncodeToString([]byte(`{"2024-03-10":{"date":"2024-03-10","parent":"ROBERT"}}`))
	got, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if rec := got[schedule.MustParseDate("2024-03-10")]; rec.Notes != "" || rec.Parent != schedule.ParentRobert {
		t.Fatalf("record = %#v", rec)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"invalid base64": "not-valid-base64!!",
		"empty":          "",
		"not json":       base64.RawURLEncoding.EncodeToString([]byte("hello world")),
		"truncated json": base64.RawURLEncoding.EncodeToString([]byte(`{"2024-03-10":{"date":"2024-`)),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := Decode(token)
			if err == nil {
				t.Fatalf("Decode(%q) returned nil error", token)
			}
			if s != nil {
				t.Fatalf("Decode returned schedule %#v alongside error", s)
			}
			if !errors.Is(err, ErrMalformed) || errors.Is(err, ErrCorrupt) {
				t.Fatalf("Decode error = %v, want malformed", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) || de.Kind != Malformed {
				t.Fatalf("error %T is not a malformed *DecodeError", err)
			}
		})
	}
}

func TestDecodeCorrupt(t *testing.T) {
	cases := map[string]string{
		"array":            `[1,2,3]`,
		"null":             `null`,
		"string":           `"schedule"`,
		"bad day key":      `{"2024-13-01":{"date":"2024-13-01","parent":"CARINE","notes":""}}`,
		"date mismatch":    `{"2024-03-10":{"date":"2024-03-11","parent":"CARINE","notes":""}}`,
		"missing date":     `{"2024-03-10":{"parent":"CARINE","notes":""}}`,
		"missing parent":   `{"2024-03-10":{"date":"2024-03-10","notes":""}}`,
		"unknown parent":   `{"2024-03-10":{"date":"2024-03-10","parent":"GRANDMA","notes":""}}`,
		"notes wrong type": `{"2024-03-10":{"date":"2024-03-10","parent":"CARINE","notes":42}}`,
		"record is null":   `{"2024-03-10":null}`,
		"record is array":  `{"2024-03-10":[]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			token := base64.RawURLEncoding.EncodeToString([]byte(payload))
			s, err := Decode(token)
			if err == nil {
				t.Fatalf("Decode(%s) returned nil error and %#v", payload, s)
			}
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("Decode error = %v, want corrupt", err)
			}
		})
	}
}

func TestDecodeNeverPanicsOnTruncation(t *testing.T) {
	token := Encode(sampleSchedule())
	for i := 0; i <= len(token); i++ {
		_, _ = Decode(token[:i])
	}
}

func TestTokenFromFragment(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"#data=abc", "abc", true},
		{"data=abc", "abc", true},
		{"#data=", "", false},
		{"#other=abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := TokenFromFragment(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("TokenFromFragment(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
	if Fragment("xyz") != "data=xyz" {
		t.Fatalf("Fragment = %q", Fragment("xyz"))
	}
}
