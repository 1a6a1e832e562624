package dao

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/pbkdf2"

	"github.com/cheatvault-go/internal/storage"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserExists      = errors.New("user already exists")
)

const pbkdf2Iterations = 10000

// User represents a user
type User struct {
	Username     string `json:"username"`
	PasswordSalt string `json:"password_salt"`
	PasswordHash string `json:"password_hash"`
}

// UserDAO handles user data access
type UserDAO struct {
	store *storage.Store
}

// NewUserDAO creates a new user DAO
func NewUserDAO(store *storage.Store) *UserDAO {
	return &UserDAO{store: store}
}

// hashPassword derives a password hash with PBKDF2-SHA256
func hashPassword(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, 32, sha256.New)
	return hex.EncodeToString(key)
}

func newSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Create creates a new user
func (d *UserDAO) Create(username, password string) error {
	switch _, err := d.Get(username); {
	case err == nil:
		return ErrUserExists
	case !errors.Is(err, ErrUserNotFound):
		return err
	}

	salt, err := newSalt()
	if err != nil {
		return err
	}
	user := User{
		Username:     username,
		PasswordSalt: hex.EncodeToString(salt),
		PasswordHash: hashPassword(password, salt),
	}
	return d.store.SetJSON(storage.BucketUsers, username, user)
}

// Validate validates user credentials
func (d *UserDAO) Validate(username, password string) error {
	user, err := d.Get(username)
	if err != nil {
		return err
	}
	salt, err := hex.DecodeString(user.PasswordSalt)
	if err != nil {
		return ErrInvalidPassword
	}
	if !hmac.Equal([]byte(user.PasswordHash), []byte(hashPassword(password, salt))) {
		return ErrInvalidPassword
	}
	return nil
}

// Get retrieves a user
func (d *UserDAO) Get(username string) (*User, error) {
	var user User
	if err := d.store.GetJSON(storage.BucketUsers, username, &user); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePassword updates a user's password
func (d *UserDAO) UpdatePassword(username, newPassword string) error {
	user, err := d.Get(username)
	if err != nil {
		return err
	}
	salt, err := newSalt()
	if err != nil {
		return err
	}
	user.PasswordSalt = hex.EncodeToString(salt)
	user.PasswordHash = hashPassword(newPassword, salt)
	return d.store.SetJSON(storage.BucketUsers, username, user)
}

// Delete deletes a user
func (d *UserDAO) Delete(username string) error {
	return d.store.Delete(storage.BucketUsers, username)
}

// EnsureDefaultUser ensures default admin user exists
func (d *UserDAO) EnsureDefaultUser() error {
	_, err := d.Get("admin")
	if errors.Is(err, ErrUserNotFound) {
		return d.Create("admin", "admin")
	}
	return err
}
