package adminreg

import (
	"encoding/json"
	"log"
	"os"
)

// Admin mirrors one entry of the static registry file.
type Admin struct {
	ID     int    `json:"id"`
	Email  string `json:"email"`
	UserID int    `json:"user_id"`
}

// Registry answers admin capability checks. Entries come from a static
// external source read once at startup and never mutate afterwards.
type Registry struct {
	byEmail map[string]Admin
}

// Load reads the registry file. Any read or parse failure yields an empty
// registry: the service starts with no admins rather than not at all.
func Load(path string) *Registry {
	reg := &Registry{byEmail: make(map[string]Admin)}
	if path == "" {
		log.Printf("admin registry path not set, starting with no admins")
		return reg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("admin registry unavailable, starting with no admins: %v", err)
		return reg
	}

	var admins []Admin
	if err := json.Unmarshal(data, &admins); err != nil {
		log.Printf("admin registry unreadable, starting with no admins: %v", err)
		return reg
	}

	for _, a := range admins {
		reg.byEmail[a.Email] = a
	}
	log.Printf("admin registry loaded: %d entries", len(reg.byEmail))
	return reg
}

// IsAdmin reports whether the email belongs to an admin. The match is
// exact and case-sensitive.
func (r *Registry) IsAdmin(email string) bool {
	_, ok := r.byEmail[email]
	return ok
}

// Count returns the number of registry entries.
func (r *Registry) Count() int {
	return len(r.byEmail)
}
