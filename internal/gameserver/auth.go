package gameserver

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrBadCredentials is returned when a reserved name is joined without its password.
	ErrBadCredentials = errors.New("invalid name or password")
	// ErrNameTaken is returned when another session already plays under the name.
	ErrNameTaken = errors.New("name already in use")
)

// maxJoinAttempts is how many rejected joins a session gets before it is closed.
const maxJoinAttempts = 3

// Message keys sent to sessions whose join was refused.
const (
	KeyJoinRejected  = "join_rejected"
	KeyJoinNameTaken = "join_name_taken"
)

// permissionsFor authenticates a join and returns the permissions it grants.
// Names without an account join with no permissions.
func (s *Server) permissionsFor(name, password string) ([]string, error) {
	acc, ok := s.cfg.AccountFor(name)
	if !ok {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("checking password of %s: %w", name, err)
	}
	return acc.Permissions, nil
}
