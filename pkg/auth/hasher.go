package auth

import (
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/ayokitanulis/ayokitanulis/pkg/config"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing.
const BcryptCost = 12

const argon2idPrefix = "$argon2id$"

// Hasher hashes new passwords with the configured algorithm and verifies
// stored hashes of either supported algorithm, so switching algorithms doesn't
// lock anybody out.
type Hasher struct {
	algorithm  string
	bcryptCost int
}

func NewHasher(algorithm string) *Hasher {
	if algorithm == "" {
		algorithm = config.PasswordHashBcrypt
	}
	return &Hasher{algorithm: algorithm, bcryptCost: BcryptCost}
}

// WithBcryptCost returns a copy of the hasher using the given bcrypt cost.
func (h *Hasher) WithBcryptCost(cost int) *Hasher {
	return &Hasher{algorithm: h.algorithm, bcryptCost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	if h.algorithm == config.PasswordHashArgon2id {
		hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
		if err != nil {
			return "", errors.WithStack(err)
		}
		return hash, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is an error,
// a wrong password is not.
func (h *Hasher) Verify(password, hash string) (bool, error) {
	if strings.HasPrefix(hash, argon2idPrefix) {
		match, err := argon2id.ComparePasswordAndHash(password, hash)
		if err != nil {
			return false, errors.WithStack(err)
		}
		return match, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, errors.WithStack(err)
	}
	return true, nil
}
