// Package share converts a schedule to and from the token carried in a share
// link fragment (#data=<token>).
//
// The token is base64 (URL alphabet, unpadded) of the compact JSON object that
// maps each day key to its assignment. Decoding also accepts the standard
// alphabet and padding, which is what links from the web app contain. Those
// links may also carry Latin-1 rather than UTF-8 text; such payloads are
// converted before parsing.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/five82/kidplan/internal/schedule"
)

// FragmentPrefix introduces the token inside a URL fragment.
const FragmentPrefix = "data="

// Kind classifies decode failures.
type Kind int

const (
	// Malformed: the token is not base64 or the payload is not JSON.
	Malformed Kind = iota + 1
	// Corrupt: the payload is JSON but not a schedule.
	Corrupt
)

func (k Kind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case Corrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against a *DecodeError.
var (
	ErrMalformed = errors.New("share token malformed")
	ErrCorrupt   = errors.New("share token corrupt")
)

// DecodeError reports why a token could not be turned into a schedule.
type DecodeError struct {
	Kind Kind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "decode share token: " + e.Kind.String()
	}
	return fmt.Sprintf("decode share token: %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches the ErrMalformed and ErrCorrupt sentinels by kind.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == Malformed
	case ErrCorrupt:
		return e.Kind == Corrupt
	}
	return false
}

// Encode serialises s into a share token. It never fails for a schedule built
// through the schedule package.
func Encode(s schedule.Schedule) string {
	if s == nil {
		s = schedule.Schedule{}
	}
	payload, err := json.Marshal(s)
	if err != nil {
		// Only a zero Date key can fail to marshal, and the store never
		// writes one.
		panic(fmt.Sprintf("share: encode schedule: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(payload)
}

// Decode parses a share token. It performs no I/O and applies nothing; every
// failure is returned as a *DecodeError.
func Decode(token string) (schedule.Schedule, error) {
	payload, err := decodeBase64(strings.TrimSpace(token))
	if err != nil {
		return nil, &DecodeError{Kind: Malformed, Err: err}
	}
	if !utf8.Valid(payload) {
		// Web app links are btoa output: one byte per Latin-1 character.
		payload, err = charmap.ISO8859_1.NewDecoder().Bytes(payload)
		if err != nil {
			return nil, &DecodeError{Kind: Malformed, Err: err}
		}
	}
	if !json.Valid(payload) {
		return nil, &DecodeError{Kind: Malformed, Err: errors.New("payload is not JSON")}
	}
	return parsePayload(payload)
}

func parsePayload(payload []byte) (schedule.Schedule, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &DecodeError{Kind: Corrupt, Err: errors.New("payload is not an object")}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &DecodeError{Kind: Corrupt, Err: err}
	}

	out := make(schedule.Schedule, len(raw))
	for key, value := range raw {
		day, rec, err := parseRecord(key, value)
		if err != nil {
			return nil, &DecodeError{Kind: Corrupt, Err: err}
		}
		out[day] = rec
	}
	return out, nil
}

// wireRecord uses pointers so missing fields can be told apart from empty ones.
type wireRecord struct {
	Date   *string `json:"date"`
	Parent *string `json:"parent"`
	Notes  *string `json:"notes"`
}

func parseRecord(key string, value json.RawMessage) (schedule.Date, schedule.Assignment, error) {
	var day schedule.Date
	if err := day.UnmarshalText([]byte(key)); err != nil {
		return day, schedule.Assignment{}, err
	}

	var w wireRecord
	if err := json.Unmarshal(value, &w); err != nil {
		return day, schedule.Assignment{}, fmt.Errorf("record %s: %w", key, err)
	}
	if w.Date == nil {
		return day, schedule.Assignment{}, fmt.Errorf("record %s: missing date", key)
	}
	if *w.Date != key {
		return day, schedule.Assignment{}, fmt.Errorf("record %s: date field is %q", key, *w.Date)
	}
	if w.Parent == nil {
		return day, schedule.Assignment{}, fmt.Errorf("record %s: missing parent", key)
	}
	var parent schedule.Parent
	if err := parent.UnmarshalText([]byte(*w.Parent)); err != nil {
		return day, schedule.Assignment{}, fmt.Errorf("record %s: %w", key, err)
	}

	rec := schedule.Assignment{Date: day, Parent: parent}
	if w.Notes != nil {
		rec.Notes = *w.Notes
	}
	return day, rec, nil
}

func decodeBase64(token string) ([]byte, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
	var firstErr error
	for _, enc := range encodings {
		payload, err := enc.DecodeString(token)
		if err == nil {
			return payload, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// Fragment returns the fragment value (without '#') that carries token.
func Fragment(token string) string {
	return FragmentPrefix + token
}

// TokenFromFragment extracts the token from a "data=" fragment. A leading '#'
// is tolerated.
func TokenFromFragment(fragment string) (string, bool) {
	f := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if !strings.HasPrefix(f, FragmentPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(f, FragmentPrefix)
	if token == "" {
		return "", false
	}
	return token, true
}
