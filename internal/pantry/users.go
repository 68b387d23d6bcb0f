package pantry

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailExists indicates a registration with an email already in use
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials indicates a login with a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RegisterUser creates a new user with a bcrypt-hashed password
func (s *Service) RegisterUser(firstName, lastName, email, password string) (*User, error) {
	if _, err := s.db.GetUserByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailExists, email)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking for existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		ID:           s.idGenerator.Generate(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.timeSource.Now(),
	}

	if err := s.db.SaveUser(user); err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}
	return user, nil
}

// Login verifies a user's credentials. The returned user has its password
// hash cleared so it is safe to put in a response.
func (s *Service) Login(email, password string) (*User, error) {
	user, err := s.db.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, email)
	}

	user.PasswordHash = ""
	return user, nil
}
