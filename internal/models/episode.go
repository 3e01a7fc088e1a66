package models

// Episode is one calendar entry, derived per run and never persisted.
type Episode struct {
	ShowID       int
	ShowTitle    string
	EpisodeTitle string
	Season       int
	Number       int
	FirstAired   string
}

// EpisodeDetails is the show artwork and network used to decorate a
// notification.
type EpisodeDetails struct {
	PosterURL      string
	NetworkName    string
	NetworkLogoURL string
}
