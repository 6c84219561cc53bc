package models

// Entity collection names, used as response keys and in change events.
const (
	EntityChannels = "channels"
	EntityPrograms = "programs"
	EntityUsers    = "users"
)
