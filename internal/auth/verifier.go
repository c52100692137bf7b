package auth

import (
	"context"
	"errors"
	"fmt"

	"hacktivity/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Verifier checks a login identifier and plaintext password against the
// account store. It has no side effects beyond the read; there is no lockout
// or throttling.
type Verifier struct {
	DB         *gorm.DB
	BcryptCost int
}

func NewVerifier(db *gorm.DB, bcryptCost int) *Verifier {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &Verifier{DB: db, BcryptCost: bcryptCost}
}

// Verify looks up the account by exact email and compares the password
// against the stored hash. It returns ErrNotFound for an unknown email and
// ErrBadCredentials for a wrong password; callers must present both as the
// same generic rejection (MsgBadLogin).
func (v *Verifier) Verify(ctx context.Context, email, password string) (*Principal, error) {
	if email == "" || password == "" {
		return nil, ErrBadCredentials
	}

	var user models.User
	err := v.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}

	return NewPrincipal(&user), nil
}

// HashPassword hashes a plaintext password with the configured bcrypt cost.
func (v *Verifier) HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), v.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
