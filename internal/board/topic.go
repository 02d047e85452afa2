package board

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kalpasnet/kotoba/internal/models"
)

const topicKey = "topic"

// TopicRegister holds the board's current discussion topic as a single
// settings row. The register value is authoritative for every listing;
// the snapshot each post carries is historical metadata only.
type TopicRegister struct {
	db *gorm.DB
}

func NewTopicRegister(db *gorm.DB) *TopicRegister {
	return &TopicRegister{db: db}
}

// Current returns the topic, or the empty string if none was ever set.
func (t *TopicRegister) Current() (string, error) {
	var s models.Setting
	err := t.db.Where("key = ?", topicKey).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Value, nil
}

// Set replaces the topic. Callers gate this behind a manager-rank check;
// the register itself does no authorization.
func (t *TopicRegister) Set(topic string) error {
	s := models.Setting{Key: topicKey, Value: topic}
	return t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&s).Error
}
