package config

// Event names pushed to presentation layers
const (
	EventState     = "state"
	EventCelebrate = "celebrate"
)
