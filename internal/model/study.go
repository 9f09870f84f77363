package model

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Study is a book/chapter scoped rich text note. The content is stored
// compressed, the Compression field names the codec used.
type Study struct {
	gorm.Model
	ID            string `gorm:"primaryKey;uuid;not null;"`
	UserID        string `gorm:"uuid;not null;index:idx_studies_user_id"`
	Version       int64
	Title         string `gorm:"not null"`
	BookName      string `gorm:"index:idx_studies_book_chapter"`
	ChapterNumber int    `gorm:"index:idx_studies_book_chapter"`
	Tags          string // JSON encoded []string
	Content       string `gorm:"not null"`
	Compression   string // codec used for the content column
}

func (s *Study) TableName() string {
	return "studies"
}

func (s *Study) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

// TagList decodes the JSON encoded tags column. A corrupted column is
// logged and treated as no tags.
func (s *Study) TagList() []string {
	if s.Tags == "" {
		return []string{}
	}

	tags := make([]string, 0)
	if err := json.Unmarshal([]byte(s.Tags), &tags); err != nil {
		logrus.Errorf("error decoding tags for study %s: %v", s.ID, err)
		return []string{}
	}

	return tags
}

// SetTagList encodes the tags into the JSON column.
func (s *Study) SetTagList(tags []string) error {
	if tags == nil {
		tags = []string{}
	}

	data, err := json.Marshal(tags)
	if err != nil {
		return err
	}

	s.Tags = string(data)
	return nil
}
