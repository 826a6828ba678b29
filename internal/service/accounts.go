// Package service provides the business logic for the account collection,
// delegating persistence to a single-slot key-value repository.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/AccountKeeper/internal/models"
)

// DefaultSlot is the key under which the collection is stored.
const DefaultSlot = "accounts"

// ErrNotFound is returned when no account has the requested id.
var ErrNotFound = errors.New("account not found")

// SlotRepository defines the persistence operations needed by the AccountManager.
type SlotRepository interface {
	// Get returns the value stored under key. ok is false when the key was never written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
}

// AccountManager holds the ordered account collection in memory and writes
// the whole collection back to its slot after every mutation.
type AccountManager struct {
	repo SlotRepository
	slot string
	log  *zap.Logger

	// newID generates account identifiers; replaced in tests.
	newID func() string

	mu       sync.Mutex
	accounts []models.Account
}

// NewAccountManager constructs an empty AccountManager persisting to slot.
// Call Load once before use to pick up previously stored accounts.
func NewAccountManager(repo SlotRepository, slot string, log *zap.Logger) *AccountManager {
	if slot == "" {
		slot = DefaultSlot
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountManager{
		repo:     repo,
		slot:     slot,
		log:      log,
		newID:    newAccountID,
		accounts: []models.Account{},
	}
}

// newAccountID returns a time-ordered UUID (version 7), so ids sort by creation time.
func newAccountID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Load replaces the in-memory collection with the one stored in the slot.
// An absent slot leaves the collection empty. Malformed data is returned as
// an error and leaves the collection unchanged.
func (m *AccountManager) Load(ctx context.Context) error {
	raw, ok, err := m.repo.Get(ctx, m.slot)
	if err != nil {
		return fmt.Errorf("read slot %q: %w", m.slot, err)
	}
	if !ok {
		m.log.Debug("no stored accounts", zap.String("slot", m.slot))
		return nil
	}

	var loaded []models.Account
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		return fmt.Errorf("decode slot %q: %w", m.slot, err)
	}
	for i := range loaded {
		loaded[i].Labels = ParseLabels(loaded[i].Label)
	}
	if loaded == nil {
		loaded = []models.Account{}
	}

	m.mu.Lock()
	m.accounts = loaded
	m.mu.Unlock()

	m.log.Info("accounts loaded", zap.String("slot", m.slot), zap.Int("count", len(loaded)))
	return nil
}

// List returns copies of all accounts in collection order.
func (m *AccountManager) List() []models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Account, len(m.accounts))
	for i, a := range m.accounts {
		out[i] = a.Clone()
	}
	return out
}

// Get returns a copy of the account with the given id.
func (m *AccountManager) Get(id string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return models.Account{}, ErrNotFound
	}
	return m.accounts[i].Clone(), nil
}

// Add appends a blank local account and persists the collection.
// The new account is returned even if persisting fails.
func (m *AccountManager) Add(ctx context.Context) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.newID()
	for m.indexOf(id) >= 0 {
		id = m.newID()
	}
	empty := ""
	acc := models.Account{
		ID:       id,
		Label:    "",
		Labels:   []models.Label{},
		Type:     models.TypeLocal,
		Login:    "",
		Password: &empty,
		Errors:   &models.FieldErrors{},
	}
	m.accounts = append(m.accounts, acc)
	m.log.Debug("account added", zap.String("id", id))

	return acc.Clone(), m.persist(ctx)
}

// Update merges patch into the first account with the given id and persists
// the collection. A new label text re-derives the labels. Validity is not
// checked. ErrNotFound is returned without touching the slot when no account
// matches.
func (m *AccountManager) Update(ctx context.Context, id string, patch models.Patch) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return models.Account{}, ErrNotFound
	}

	acc := &m.accounts[i]
	if patch.Label != nil {
		acc.Label = *patch.Label
		acc.Labels = ParseLabels(*patch.Label)
	}
	if patch.Type != nil {
		acc.Type = *patch.Type
	}
	if patch.Login != nil {
		acc.Login = *patch.Login
	}
	if patch.PasswordSet {
		if patch.Password == nil {
			acc.Password = nil
		} else {
			pw := *patch.Password
			acc.Password = &pw
		}
	}
	m.log.Debug("account updated", zap.String("id", id))

	return acc.Clone(), m.persist(ctx)
}

// Remove deletes the account with the given id, keeping the order of the
// rest, and persists the collection. ErrNotFound is returned without touching
// the slot when no account matches.
func (m *AccountManager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.accounts = slices.Delete(m.accounts, i, i+1)
	m.log.Debug("account removed", zap.String("id", id))

	return m.persist(ctx)
}

// ValidateByID runs Validate on the stored account, keeps the resulting error
// map on it and persists the collection.
func (m *AccountManager) ValidateByID(ctx context.Context, id string) (models.Account, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return models.Account{}, false, ErrNotFound
	}
	ok := Validate(&m.accounts[i])
	return m.accounts[i].Clone(), ok, m.persist(ctx)
}

// indexOf returns the position of the first account with id, or -1.
// Callers must hold m.mu.
func (m *AccountManager) indexOf(id string) int {
	return slices.IndexFunc(m.accounts, func(a models.Account) bool {
		return a.ID == id
	})
}

// persist writes the whole collection to the slot. Callers must hold m.mu.
func (m *AccountManager) persist(ctx context.Context) error {
	b, err := json.Marshal(m.accounts)
	if err != nil {
		m.log.Error("failed to encode accounts", zap.Error(err))
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := m.repo.Set(ctx, m.slot, string(b)); err != nil {
		m.log.Error("failed to persist accounts", zap.String("slot", m.slot), zap.Error(err))
		return fmt.Errorf("write slot %q: %w", m.slot, err)
	}
	return nil
}
