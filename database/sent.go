package database

import (
	"errors"

	"gorm.io/gorm"

	"reddigram/models"
)

// Sent is the delivered-posts ledger backed by the shared database.
type Sent struct{}

func (Sent) Contains(chat int64, postID string) (bool, error) {
	var record models.SentPost
	err := DB.
		Where("chat = ? AND post_id = ?", chat, postID).
		First(&record).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (Sent) Append(chat int64, postID string) error {
	return DB.Create(&models.SentPost{
		Chat:   chat,
		PostID: postID,
	}).Error
}
