// Package uuid generates and checks the identifiers used for records and
// request tracing.
package uuid

import googleuuid "github.com/google/uuid"

// New returns a UUIDv7. The leading timestamp keeps primary keys roughly
// insertion-ordered. Falls back to a random UUIDv4 if v7 generation fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// Canonical parses s and returns it in lowercase hyphenated form.
func Canonical(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
