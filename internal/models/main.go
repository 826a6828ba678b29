// Package models defines the core data structures for accounts and their labels.
package models

import (
	"encoding/json"
	"fmt"
)

// AccountType discriminates how an account authenticates.
type AccountType string

const (
	// TypeLDAP marks an account checked against a directory; no password is kept.
	TypeLDAP AccountType = "ldap"
	// TypeLocal marks an account whose password is stored alongside it.
	TypeLocal AccountType = "local"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t == TypeLDAP || t == TypeLocal
}

// Label is a single tag extracted from the account's label text.
type Label struct {
	Text string `json:"text"`
}

// FieldErrors holds per-field validation messages of an account.
type FieldErrors struct {
	Login    string `json:"login,omitempty"`
	Password string `json:"password,omitempty"`
}

// Empty reports whether no field carries an error.
func (e FieldErrors) Empty() bool {
	return e.Login == "" && e.Password == ""
}

// Account is a user-managed credential entry.
type Account struct {
	// ID is the unique identifier for the account, derived from its creation time.
	ID string `json:"id"`
	// Label is the raw, semicolon-delimited label text as typed by the user.
	Label string `json:"label"`
	// Labels is always the parsed form of Label and is never edited on its own.
	Labels []Label `json:"labels"`
	// Type is either "ldap" or "local".
	Type AccountType `json:"type"`
	// Login is the user name of the account.
	Login string `json:"login"`
	// Password is nil when no password is kept.
	Password *string `json:"password"`
	// Errors carries the messages of the latest validation, if any.
	Errors *FieldErrors `json:"errors,omitempty"`
}

// Clone returns a deep copy of the account.
func (a Account) Clone() Account {
	out := a
	if a.Labels != nil {
		out.Labels = make([]Label, len(a.Labels))
		copy(out.Labels, a.Labels)
	}
	if a.Password != nil {
		pw := *a.Password
		out.Password = &pw
	}
	if a.Errors != nil {
		errs := *a.Errors
		out.Errors = &errs
	}
	return out
}

// Patch is a partial update of an account. Nil fields are left untouched.
//
// Password needs a separate presence flag because a null password is a
// legitimate value: PasswordSet with a nil Password clears it.
type Patch struct {
	Label       *string
	Type        *AccountType
	Login       *string
	Password    *string
	PasswordSet bool
}

// SetPassword marks the password as part of the patch.
func (p *Patch) SetPassword(pw *string) {
	p.Password = pw
	p.PasswordSet = true
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Label == nil && p.Type == nil && p.Login == nil && !p.PasswordSet
}

// UnmarshalJSON decodes a partial account. Keys that are absent stay unset,
// "password": null clears the password, and id or labels are ignored.
func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Patch{}
	if v, ok := raw["label"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("label: %w", err)
		}
		p.Label = &s
	}
	if v, ok := raw["type"]; ok {
		var t AccountType
		if err := json.Unmarshal(v, &t); err != nil {
			return fmt.Errorf("type: %w", err)
		}
		if !t.Valid() {
			return fmt.Errorf("type: unknown account type %q", t)
		}
		p.Type = &t
	}
	if v, ok := raw["login"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		p.Login = &s
	}
	if v, ok := raw["password"]; ok {
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("password: %w", err)
		}
		p.SetPassword(s)
	}
	return nil
}

// MarshalJSON encodes only the fields present in the patch.
func (p Patch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 4)
	if p.Label != nil {
		out["label"] = *p.Label
	}
	if p.Type != nil {
		out["type"] = *p.Type
	}
	if p.Login != nil {
		out["login"] = *p.Login
	}
	if p.PasswordSet {
		out["password"] = p.Password
	}
	return json.Marshal(out)
}
