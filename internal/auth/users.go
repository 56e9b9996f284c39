// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package auth

import (
	"context"
	"crypto/subtle"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Roles carried in JWT claims and casbin policies.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// DefaultRole applies to users rows without a role column.
const DefaultRole = RoleAdmin

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// dummyHash is compared against when the user does not exist so that unknown
// and known usernames take similar time.
var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("flumap-unknown-user"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// User is an authenticated account.
type User struct {
	Username string
	Role     string
}

type userRow struct {
	username string
	password string
	role     string
}

// UserStore authenticates against a users CSV file.
//
// The file is re-read on every call so edits take effect without a restart.
type UserStore struct {
	path string
}

// NewUserStore creates a store for the users file at path.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// Path returns the users file location.
func (s *UserStore) Path() string {
	return s.path
}

// Authenticate checks username and password and returns the matching user.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.load()
	if err != nil {
		return nil, err
	}

	var match *userRow
	for i := range rows {
		if subtle.ConstantTimeCompare([]byte(rows[i].username), []byte(username)) == 1 {
			match = &rows[i]
		}
	}

	if match == nil {
		compareDummy(password)
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(match.password, password) {
		return nil, ErrInvalidCredentials
	}

	return &User{Username: match.username, Role: match.role}, nil
}

func (s *UserStore) load() ([]userRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open users file: %w", err)
	}
	defer f.Close()

	return parseUsers(f)
}

// parseUsers reads username,password[,role] rows after a header row.
func parseUsers(r io.Reader) ([]userRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read users header: %w", err)
	}

	var rows []userRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read users file: %w", err)
		}
		if len(record) < 2 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		row := userRow{
			username: strings.TrimSpace(record[0]),
			password: strings.TrimSpace(record[1]),
			role:     DefaultRole,
		}
		if len(record) > 2 {
			switch role := strings.ToLower(strings.TrimSpace(record[2])); role {
			case RoleAdmin, RoleViewer:
				row.role = role
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// IsBcryptHash reports whether a stored password is a bcrypt hash.
func IsBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

func checkPassword(stored, provided string) bool {
	if IsBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(provided)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) == 1
}

// HashPassword returns a bcrypt hash suitable for the users file.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
