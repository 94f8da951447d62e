package records

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wuroud/islamic-hub/model"
	"github.com/wuroud/islamic-hub/store"
)

// Local keys kept next to the collections.
const (
	KeyMode    = "dbMode"
	KeyTheme   = "theme"
	KeySession = "user"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences reads and writes the non-collection local keys. They always
// live in local storage, whatever the database mode.
type Preferences struct {
	kv store.KV
}

func NewPreferences(kv store.KV) *Preferences {
	return &Preferences{kv: kv}
}

// Mode returns the persisted database mode. A missing or unrecognized
// value means local.
func (p *Preferences) Mode() (store.Mode, error) {
	raw, ok, err := p.kv.Get(KeyMode)
	if err != nil || !ok {
		return store.ModeLocal, err
	}
	m, err := store.ParseMode(strings.TrimSpace(string(raw)))
	if err != nil {
		return store.ModeLocal, nil
	}
	return m, nil
}

// SetMode persists the database mode. The running store is unaffected;
// the new mode applies the next time the store is opened.
func (p *Preferences) SetMode(m store.Mode) error {
	parsed, err := store.ParseMode(string(m))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return p.kv.Set(KeyMode, []byte(parsed))
}

// Theme returns the persisted theme, light unless dark was chosen.
func (p *Preferences) Theme() (string, error) {
	raw, ok, err := p.kv.Get(KeyTheme)
	if err != nil {
		return ThemeLight, err
	}
	if ok && string(raw) == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

func (p *Preferences) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("%w: unknown theme %q (supported: light, dark)", ErrInvalid, theme)
	}
	return p.kv.Set(KeyTheme, []byte(theme))
}

// Session returns the signed-in user, or nil when nobody is signed in. An
// unreadable session value counts as signed out.
func (p *Preferences) Session() (*model.Session, error) {
	raw, ok, err := p.kv.Get(KeySession)
	if err != nil || !ok {
		return nil, err
	}
	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil || s.Username == "" {
		return nil, nil
	}
	return &s, nil
}

func (p *Preferences) SetSession(s model.Session) error {
	if s.Username == "" {
		return fmt.Errorf("%w: session without username", ErrInvalid)
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.kv.Set(KeySession, b)
}

func (p *Preferences) ClearSession() error {
	return p.kv.Remove(KeySession)
}
