package session

import (
	"fmt"

	"learner-portal/internal/utils"
)

const idBytes = 32 // 256 bits

// GenerateID returns a URL-safe random session id.
func GenerateID() (string, error) {
	id, err := utils.RandomString(idBytes)
	if err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return id, nil
}
