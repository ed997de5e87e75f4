// Package session persists the client's authentication session (bearer token
// plus the user it belongs to) and the UI language preference.
//
// The session record is stored as one JSON document under SessionKey so the
// token and the user are always written and removed together.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/clubhub/internal/client/models"
	"github.com/dmitrijs2005/clubhub/internal/client/repositories/kv"
	"github.com/dmitrijs2005/clubhub/internal/dbx"
)

const (
	SessionKey  = "session"
	LanguageKey = "language"
)

var (
	ErrNoSession      = errors.New("no session")
	ErrCorruptSession = errors.New("corrupt session")
	ErrInvalidSession = errors.New("session requires both token and user")
)

// Store is the durable session store. Construct one per App; it keeps no
// in-memory state besides the database handle.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) repo() kv.Repository {
	return kv.NewSQLiteRepository(s.db)
}

// Save persists user and token as the current session, replacing any
// previous one. Both must be present.
func (s *Store) Save(ctx context.Context, user *models.User, token string) error {
	sess := &models.Session{Token: token, User: user}
	if !sess.Valid() {
		return ErrInvalidSession
	}
	return s.write(ctx, sess)
}

func (s *Store) write(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return kv.NewSQLiteRepository(tx).Set(ctx, SessionKey, raw)
	})
}

// Load returns the persisted session. It returns ErrNoSession when nothing is
// stored and wraps ErrCorruptSession when the record cannot be decoded or
// lacks the token or the user.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	raw, err := s.repo().Get(ctx, SessionKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNoSession
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if !sess.Valid() {
		return nil, fmt.Errorf("%w: missing token or user", ErrCorruptSession)
	}
	return &sess, nil
}

// CurrentUser returns the user of the persisted session, or nil when there is
// no usable session.
func (s *Store) CurrentUser(ctx context.Context) *models.User {
	sess, err := s.Load(ctx)
	if err != nil {
		return nil
	}
	return sess.User
}

// Token returns the persisted bearer token. It satisfies the gateway's
// token source contract.
func (s *Store) Token(ctx context.Context) (string, error) {
	sess, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// UpdateToken replaces the token of the existing session, keeping its user.
func (s *Store) UpdateToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidSession
	}
	sess, err := s.Load(ctx)
	if err != nil {
		return err
	}
	sess.Token = token
	return s.write(ctx, sess)
}

// Clear removes the session record. The language preference is kept.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo().Delete(ctx, SessionKey)
}

// Language returns the stored language preference, or fallback if none.
func (s *Store) Language(ctx context.Context, fallback string) (string, error) {
	raw, err := s.repo().Get(ctx, LanguageKey)
	if err != nil {
		return fallback, err
	}
	if lang := strings.TrimSpace(string(raw)); lang != "" {
		return lang, nil
	}
	return fallback, nil
}

func (s *Store) SetLanguage(ctx context.Context, lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return errors.New("language must not be empty")
	}
	return s.repo().Set(ctx, LanguageKey, []byte(lang))
}
