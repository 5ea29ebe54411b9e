package models

import (
	"errors"
	"time"

	"github.com/go-pg/pg/v10/orm"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the user's authorization tier
type Role string

// Available roles
const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// User represents a portal user. CompanyID is nil only for superadmins.
type User struct {
	ID             uuid.UUID  `pg:"id,type:uuid,pk"`
	CompanyID      *uuid.UUID `pg:"company_id,type:uuid"`
	Username       string     `pg:"username,unique,notnull"`
	PasswordHash   string     `pg:"password_hash,notnull"`
	Email          string     `pg:"email,notnull"`
	Role           Role       `pg:"role,type:text,notnull,default:'user'"`
	FirstName      string     `pg:"first_name"`
	LastName       string     `pg:"last_name"`
	JobTitle       string     `pg:"job_title"`
	Department     string     `pg:"department"`
	ProfileImage   string     `pg:"profile_image"`
	Active         bool       `pg:"active,notnull,default:true"`
	FailedAttempts int        `pg:"failed_attempts,notnull,default:0"`
	LockedUntil    time.Time  `pg:"locked_until"`
	LastLogin      time.Time  `pg:"last_login"`
	CreatedAt      time.Time  `pg:"created_at,notnull,default:now()"`
	UpdatedAt      time.Time  `pg:"updated_at,notnull,default:now()"`

	// Relations
	Company *Company `pg:"rel:has-one,fk:company_id"`

	// Password is accepted on input and never stored
	Password string `pg:"-"`
}

// BeforeInsert hook is called before inserting a new user
func (u *User) BeforeInsert(_ orm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Password != "" {
		hash, err := HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook is called before updating a user
func (u *User) BeforeUpdate(_ orm.DB) error {
	if u.Password != "" {
		hash, err := HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now()
	return nil
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(hash), err
}

// CheckPassword checks if the provided password is correct
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// FullName returns the user's full name
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// TableName returns the name of the table for this model
func (u *User) TableName() string {
	return "users"
}

// IsAdmin returns whether the user is an admin or superadmin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsSuperAdmin returns whether the user is a superadmin
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsLocked returns whether the user account is locked
func (u *User) IsLocked() bool {
	return !u.LockedUntil.IsZero() && time.Now().Before(u.LockedUntil)
}
