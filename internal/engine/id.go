package engine

import "github.com/google/uuid"

// generateID creates a random ID for plans.
func generateID() string {
	return uuid.NewString()
}
