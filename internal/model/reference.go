package model

import "time"

// Link types stored in the references table.
const (
	LinkTypeInternal = "internal"
	LinkTypeExternal = "external"
)

// Reference represents a directed link from a study to another study or to
// an external URL. An internal reference created by the user gets a mirror
// row on the target side with IsBidirectional=false, so the target study
// lists who points at it. The flag records authorship, not symmetry.
type Reference struct {
	ID            string  `gorm:"primaryKey;uuid;not null"`
	SourceStudyID string  `gorm:"uuid;not null;index:idx_references_source_study_id"`
	TargetStudyID *string `gorm:"uuid;index:idx_references_target_study_id"`
	LinkType      string  `gorm:"not null;default:internal"`
	ExternalURL   *string
	// IsBidirectional is set at creation and never updated through this
	// service: true for the row the user authored, false for the
	// materialized reverse row. No column default: gorm would skip the
	// zero value on insert and turn reverse rows into forward ones.
	IsBidirectional bool `gorm:"not null"`
	DisplayOrder    int  `gorm:"not null;default:0"`

	// Denormalized target fields, populated for internal references so
	// listing does not join on studies.
	TargetTitle         string
	TargetBookName      string
	TargetChapterNumber int
	TargetTags          string // JSON encoded []string

	CreatedAt time.Time
}

func (r *Reference) TableName() string {
	return "study_references"
}

// Internal reports whether the reference targets another study, returning
// the target id when it does. Guards the variant rule: TargetStudyID is
// only meaningful on internal rows.
func (r *Reference) Internal() (string, bool) {
	if r.LinkType != LinkTypeInternal || r.TargetStudyID == nil {
		return "", false
	}
	return *r.TargetStudyID, true
}

// External reports whether the reference targets an external URL, returning
// the URL when it does.
func (r *Reference) External() (string, bool) {
	if r.LinkType != LinkTypeExternal || r.ExternalURL == nil {
		return "", false
	}
	return *r.ExternalURL, true
}
