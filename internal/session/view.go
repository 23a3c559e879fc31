package session

import (
	"worldclock/internal/clock"
	"worldclock/internal/models"
)

// View renders session state. Methods may be called from any goroutine.
type View interface {
	// ShowSuggestions replaces the suggestion list; an empty list hides it.
	ShowSuggestions(places []models.Place)
	ShowError(msg string)
	HideError()
	// ShowPlace switches the header to a newly selected place.
	ShowPlace(place models.Place, favorite bool)
	ShowFavoriteState(favorite bool)
	ShowFavorites(list []models.Place)
	// ShowBackground sets the background image; "" means the neutral default.
	ShowBackground(url string)
	ShowFrame(frame clock.Frame)
	ShowLocal(frame clock.LocalFrame)
}
