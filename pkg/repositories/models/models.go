package models

type User struct {
	ID string `json:"id"`
}

type Character struct {
	ID     int32  `json:"id"`
	UserID string `json:"user_id,omitempty"`
	GUID   string `json:"guid"`
	Name   string `json:"name"`
}

// PlayerRecord is the persisted state of a character between sessions.
type PlayerRecord struct {
	CharacterID int32   `json:"character_id"`
	Timestamp   int64   `json:"timestamp"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Hitpoints   float64 `json:"hitpoints"`
	Ammo        int16   `json:"ammo"`
}
