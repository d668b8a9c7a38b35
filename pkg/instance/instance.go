package instance

import "os"

// GetID returns the process instance identifier used in log fields.
func GetID() string {
	if id := os.Getenv("POKEDEX_INSTANCE_ID"); id != "" {
		return id
	}
	return "local"
}
