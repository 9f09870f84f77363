package model

// Book is a row of the canonical book catalogue the studies are scoped by.
// The catalogue is seeded once by migration and never mutated at runtime.
type Book struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null;uniqueIndex"`
	Abbreviation string `gorm:"not null"`
	Testament    string // "old" or "new"
	ChapterCount int    `gorm:"not null"`
	Position     int    `gorm:"not null"` // canonical order
}

func (Book) TableName() string {
	return "books"
}
