// Package prefs is the only state that outlives a screen: a small sqlite
// key-value store holding the session identity and user preferences. Writers
// race last-write-wins; there is no cross-key transaction and none is
// needed.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Kishorekumar1730/Reel2Cart-sub000/internal/domain"
)

// Well-known keys. String values except userInfo and userSelectedRegion,
// which hold JSON.
const (
	KeyUserInfo             = "userInfo"
	KeyUserLanguage         = "userLanguage"
	KeyUserSelectedRegion   = "userSelectedRegion"
	KeyDefaultPaymentMethod = "defaultPaymentMethod"
	KeyAuthToken            = "authToken"
)

var ErrNotFound = errors.New("preference not found")

type Store struct {
	db *sql.DB
}

// Open creates or opens the preference database. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	db, errOpen := sql.Open("sqlite3", path)
	if errOpen != nil {
		return nil, fmt.Errorf("open prefs db failed: %w", errOpen)
	}
	if _, errExec := db.Exec(`CREATE TABLE IF NOT EXISTS prefs (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); errExec != nil {
		db.Close()
		return nil, fmt.Errorf("init prefs schema failed: %w", errExec)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("prefs get failed: %w", err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("prefs set failed: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM prefs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("prefs delete failed: %w", err)
	}
	return nil
}

// Session loads the persisted identity. A missing or unreadable entry
// degrades to a guest session rather than an error: screens show a sign-in
// prompt, they never crash.
func (s *Store) Session(ctx context.Context) domain.Session {
	raw, errGet := s.Get(ctx, KeyUserInfo)
	if errGet != nil {
		return domain.GuestSession()
	}
	var sess domain.Session
	if errDecode := json.Unmarshal([]byte(raw), &sess); errDecode != nil {
		return domain.GuestSession()
	}
	if sess.Guest() {
		return domain.GuestSession()
	}
	return sess
}

func (s *Store) SaveSession(ctx context.Context, sess domain.Session) error {
	raw, errMarshal := json.Marshal(sess)
	if errMarshal != nil {
		return fmt.Errorf("marshal session failed: %w", errMarshal)
	}
	return s.Set(ctx, KeyUserInfo, string(raw))
}

// ClearSession removes the identity and the auth token together (logout).
func (s *Store) ClearSession(ctx context.Context) error {
	if errUser := s.Delete(ctx, KeyUserInfo); errUser != nil {
		return errUser
	}
	return s.Delete(ctx, KeyAuthToken)
}

func (s *Store) Region(ctx context.Context) (domain.Region, error) {
	raw, errGet := s.Get(ctx, KeyUserSelectedRegion)
	if errGet != nil {
		return domain.Region{}, errGet
	}
	var region domain.Region
	if errDecode := json.Unmarshal([]byte(raw), &region); errDecode != nil {
		return domain.Region{}, fmt.Errorf("decode region failed: %w", errDecode)
	}
	return region, nil
}

func (s *Store) SaveRegion(ctx context.Context, region domain.Region) error {
	raw, errMarshal := json.Marshal(region)
	if errMarshal != nil {
		return fmt.Errorf("marshal region failed: %w", errMarshal)
	}
	return s.Set(ctx, KeyUserSelectedRegion, string(raw))
}
