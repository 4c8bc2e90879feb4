package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/enigma-dining/reservation-backend/internal/utils"
)

// StaffUser mirrors the 'staff_users' table. Roles are ADMIN, MANAGER or
// STAFF; role checks happen in middleware, not here.
type StaffUser struct {
	ID           uint64
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type StaffRepo struct{ DB *sql.DB }

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a staff user and returns its ID.
func (r *StaffRepo) Create(ctx context.Context, email, fullName, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO staff_users (email, full_name, password_hash, role) VALUES (?,?,?,?)",
		email, fullName, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a staff user by normalized email.
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (StaffUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u StaffUser
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,full_name,password_hash,role,is_active,created_at,updated_at FROM staff_users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a staff user by id.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (StaffUser, error) {
	var u StaffUser
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,full_name,password_hash,role,is_active,created_at,updated_at FROM staff_users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
