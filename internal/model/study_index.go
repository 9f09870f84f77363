package model

import "time"

// StudyIndex holds the plain text extracted from a study for search
// indexing. The bleve index is rebuilt from these rows, so losing the index
// directory is never fatal. StudyID is the only primary key: the upsert in
// the store relies on it being the conflict target.
type StudyIndex struct {
	StudyID string `gorm:"primaryKey;uuid;not null;"`
	UserID  string `gorm:"uuid;not null"`
	Version int64
	Content string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StudyIndex) TableName() string {
	return "study_index"
}
