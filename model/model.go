// Package model defines the record kinds kept by the hub: articles, blogs,
// categories and users, with their default-fill rules, seed data and
// validation schemas.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the display date format stored in records (MM/DD/YYYY).
const DateLayout = "01/02/2006"

// Defaults filled in by WithDefaults.
const (
	DefaultAuthor   = "Anonymous"
	DefaultCategory = "General"
	DefaultIcon     = "book"
	DefaultRole     = RoleUser
)

// Record statuses.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusArchived  = "archived"

	UserActive    = "active"
	UserSuspended = "suspended"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Record is implemented by every kind kept in a collection. T is the
// implementing type itself.
type Record[T any] interface {
	// RecordID returns the record id, empty before the record is stored.
	RecordID() ID
	// WithDefaults returns a copy with every omitted field filled in.
	WithDefaults(now time.Time) T
	// Schema returns the JSON schema that stored documents must satisfy.
	Schema() map[string]any
}

// FormatDate formats t the way record dates are stored.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ID identifies a record. Local storage assigns clock-derived integers,
// remote stores assign opaque strings; both are held in canonical string
// form so they compare the same way. Integer ids are written to JSON as
// numbers and all others as strings, which keeps the local snapshot format
// unchanged.
type ID string

var integerID = regexp.MustCompile(`^(0|-?[1-9][0-9]{0,17})$`)

func (id ID) String() string { return string(id) }

func (id ID) MarshalJSON() ([]byte, error) {
	if integerID.MatchString(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("id must be a number or a string: %w", err)
		}
		*id = ID(n.String())
		return nil
	}
}

// Session is the signed-in user kept under the "user" key.
type Session struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}
