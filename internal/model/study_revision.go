package model

import "gorm.io/gorm"

// StudyRevision is a snapshot of a study taken before an update is applied.
// Revisions are created automatically on update and pruned by the cleaner
// job, they are never written to directly.
type StudyRevision struct {
	gorm.Model
	ID          string `gorm:"primaryKey:uuid;"`
	Version     int64  `gorm:"primaryKey"`
	Study       *Study `gorm:"foreignKey:ID"`
	Title       string `gorm:""`
	Content     string `gorm:""`
	Tags        string
	Compression string
}

func (StudyRevision) TableName() string {
	return "study_revisions"
}
