package auth

import "crypto/subtle"

// Gate checks the shared dashboard password.
type Gate struct {
	password []byte
}

func NewGate(password string) *Gate {
	return &Gate{password: []byte(password)}
}

// Check reports whether attempt matches exactly. The comparison takes the
// same time whatever the position of the first mismatch.
func (g *Gate) Check(attempt string) bool {
	return subtle.ConstantTimeCompare(g.password, []byte(attempt)) == 1
}
