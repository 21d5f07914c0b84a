package service

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes account passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost int
	// dummy is compared against when an email is unknown so both login
	// failures spend the same bcrypt work.
	dummy []byte
}

// NewPasswordHasher parses BCRYPT_COST. An empty value selects bcrypt.DefaultCost.
func NewPasswordHasher(cost string) (PasswordHasher, error) {
	parsed := bcrypt.DefaultCost
	if value := strings.TrimSpace(cost); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			return PasswordHasher{}, fmt.Errorf("%w: invalid BCRYPT_COST", ErrMisconfigured)
		}
		parsed = n
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), parsed)
	if err != nil {
		return PasswordHasher{}, err
	}
	return PasswordHasher{cost: parsed, dummy: dummy}, nil
}

func (h PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h PasswordHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (h PasswordHasher) burn(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
