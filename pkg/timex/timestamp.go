package timex

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Timestamp decodes any shape Normalize accepts and encodes as RFC3339Nano.
// JSON null and empty values decode to the zero time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	v, err := decodeLoose(b)
	if err != nil {
		return err
	}
	parsed, err := Normalize(v)
	if errors.Is(err, ErrEmpty) {
		t.Time = time.Time{}
		return nil
	}
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// EpochTime decodes like Timestamp but encodes as epoch milliseconds. The
// persisted session record uses it for expiresAt.
type EpochTime struct {
	time.Time
}

func (t *EpochTime) UnmarshalJSON(b []byte) error {
	var ts Timestamp
	if err := ts.UnmarshalJSON(b); err != nil {
		return err
	}
	t.Time = ts.Time
	return nil
}

func (t EpochTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(EpochMillis(t.Time))
}

// EpochMillis returns t as epoch milliseconds, or 0 for the zero time.
func EpochMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromEpochMillis is the inverse of EpochMillis.
func FromEpochMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func decodeLoose(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("timex: decode: %w", err)
	}
	return v, nil
}
