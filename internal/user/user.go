package user

import (
	"os"
	"os/user"
)

// NameEnv overrides the display name shown to collaborators
const NameEnv = "TABLA_USER"

// GetCurrentUsername returns the name other clients see in presence markers.
// It tries multiple methods with fallbacks:
// 1. TABLA_USER environment variable
// 2. user.Current() - gets username from OS
// 3. USER environment variable - fallback for restricted environments
// 4. "unknown" - final fallback to ensure a non-empty value
func GetCurrentUsername() string {
	if name := os.Getenv(NameEnv); name != "" {
		return name
	}

	currentUser, err := user.Current()
	if err != nil || currentUser.Username == "" {
		username := os.Getenv("USER")
		if username == "" {
			return "unknown"
		}
		return username
	}
	return currentUser.Username
}
