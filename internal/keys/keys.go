package keys

import "strings"

// Persisted state keys.
const (
	Favorites = "worldClock.favorites.v1"
	LastPlace = "worldClock.lastPlace.v1"
)

const objectPrefix = "worldclock/"

// sanitize replaces spaces with hyphens and lowercases the string.
func sanitize(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

// Object returns the object-storage key for a store key.
func Object(key string) string {
	return objectPrefix + sanitize(key) + ".json"
}
