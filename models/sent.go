package models

import "time"

// SentPost records one delivered submission per channel. Rows are only
// ever appended; a post present here is never sent to that chat again.
type SentPost struct {
	ID        uint   `gorm:"primaryKey"`
	Chat      int64  `gorm:"not null;uniqueIndex:idx_chat_post"`
	PostID    string `gorm:"not null;uniqueIndex:idx_chat_post"`
	CreatedAt time.Time
}
