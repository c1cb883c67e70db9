package service

import (
	"errors"
	"fmt"

	"accessfirst/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher turns credentials into one-way hashes
type CredentialHasher interface {
	Hash(credential string) (string, error)
	Compare(hash, credential string) error
}

// BcryptHasher hashes credentials with bcrypt
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher creates a hasher; cost 0 means bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, credential string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredential
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	return nil
}
