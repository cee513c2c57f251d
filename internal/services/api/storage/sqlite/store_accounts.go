package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

const profileColumns = "id, email, first_name, last_name, phone, role, created_at, updated_at"

func scanProfile(row rowScanner) (storage.Profile, error) {
	var (
		p                    storage.Profile
		role                 string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &role, &createdAt, &updatedAt); err != nil {
		return storage.Profile{}, err
	}
	p.Role = access.Role(role)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

// CreateAccount persists credentials and the matching profile atomically.
func (s *Store) CreateAccount(ctx context.Context, account storage.Account, profile storage.Profile) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(account.ID) == "" {
		return fmt.Errorf("account id is required")
	}
	if strings.TrimSpace(account.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if profile.ID != account.ID {
		return fmt.Errorf("profile id must match account id")
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO accounts (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
			account.ID, account.Email, account.PasswordHash, toMillis(account.CreatedAt),
		); err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("put account: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO profiles ("+profileColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			profile.ID, profile.Email, profile.FirstName, profile.LastName, profile.Phone,
			string(profile.Role), toMillis(profile.CreatedAt), toMillis(profile.UpdatedAt),
		); err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("put profile: %w", err)
		}
		return nil
	})
}

// GetAccountByEmail fetches credentials by normalized email.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (storage.Account, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Account{}, err
	}
	var account storage.Account
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Account{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Account{}, fmt.Errorf("get account: %w", err)
	}
	account.CreatedAt = fromMillis(createdAt)
	return account, nil
}

// GetProfile fetches a profile by id.
func (s *Store) GetProfile(ctx context.Context, id string) (storage.Profile, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Profile{}, err
	}
	if strings.TrimSpace(id) == "" {
		return storage.Profile{}, fmt.Errorf("profile id is required")
	}
	profile, err := scanProfile(s.sqlDB.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Profile{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// ListProfiles returns every profile, newest first.
func (s *Store) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT "+profileColumns+" FROM profiles ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]storage.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// UpdateProfile overwrites names, phone and role.
func (s *Store) UpdateProfile(ctx context.Context, p storage.Profile) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		"UPDATE profiles SET first_name = ?, last_name = ?, phone = ?, role = ?, updated_at = ? WHERE id = ?",
		p.FirstName, p.LastName, p.Phone, string(p.Role), toMillis(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireAffected(result, "update profile")
}

// DeleteProfile removes the profile together with its credentials.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if err := requireAffected(result, "delete profile"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
}
