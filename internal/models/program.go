package models

import "time"

// Program is a scheduled item on a channel. AirDate is assigned by the server
// at creation time.
type Program struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Duration    int32     `json:"duration"`
	Description *string   `json:"description"`
	VideoURL    *string   `json:"videoUrl"`
	ChannelID   int64     `json:"channelId"`
	TypeID      int64     `json:"typeId"`
	CategoryID  int64     `json:"categoryId"`
	AirDate     time.Time `json:"airDate"`
	IsActive    bool      `json:"isActive"`

	// populated by read queries (joined from channels, program_types, categories)
	ChannelName  string `json:"channelName,omitempty"`
	TypeName     string `json:"typeName,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}
