package users

import (
	"errors"
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge/crypto"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"portfolio/internal/auth"
)

// RoleAdmin is the role claim the clear operation's role strategy checks.
const RoleAdmin = "admin"

type User struct {
	ID                uint   `gorm:"primaryKey"`
	Email             string `gorm:"uniqueIndex"`
	EncryptedPassword string
	Role              string
	LastLoginAt       *time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// Identity converts a stored user into the provider-neutral shape the
// authorizer predicates evaluate.
func (u *User) Identity() auth.Identity {
	identity := auth.Identity{Email: u.Email}
	if u.Role != "" {
		identity.Roles = []string{u.Role}
	}
	return identity
}

// ErrUserExists is returned when attempting to create a user that already exists.
var ErrUserExists = errors.New("user already exists")

// ErrInvalidCredentials is returned when email or password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// FindByEmail retrieves a user by email.
func FindByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user by ID.
func FindByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies email and password and stamps last_login_at.
// The caller cannot distinguish a missing user from a wrong password.
func Authenticate(db *gorm.DB, logger *slog.Logger, email, password string) (*User, error) {
	user, err := FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.VerifyPassword(user.EncryptedPassword, password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	err = sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Model(user).Update("last_login_at", now).Error
	})
	if err != nil {
		logger.Warn("Failed to stamp last login", slog.String("email", email), slog.Any("error", err))
	}
	user.LastLoginAt = &now

	return user, nil
}

// CreateAdminUser creates a new admin user with the supplied credentials.
// It returns ErrUserExists if the email is already taken.
func CreateAdminUser(db *gorm.DB, logger *slog.Logger, email, password string) error {
	if email == "" {
		return errors.New("email cannot be empty")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if _, err := FindByEmail(db, email); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := crypto.GeneratePasswordHash(password)
	if err != nil {
		return err
	}

	newUser := User{
		Email:             email,
		EncryptedPassword: string(hashedPassword),
		Role:              RoleAdmin,
	}

	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(&newUser).Error
	})
}

// ChangePassword updates a user's password given their email.
func ChangePassword(db *gorm.DB, logger *slog.Logger, email, password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	user, err := FindByEmail(db, email)
	if err != nil {
		return err
	}

	hashedPassword, err := crypto.GeneratePasswordHash(password)
	if err != nil {
		return err
	}

	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Model(user).Update("encrypted_password", string(hashedPassword)).Error
	})
}
