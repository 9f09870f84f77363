package model

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Study{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Reference{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&StudyRevision{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&StudyIndex{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Book{}); err != nil {
		return err
	}

	return SeedBooks(db)
}

// SeedBooks inserts the canonical book catalogue. Safe to run on every
// migration, existing rows are left untouched.
func SeedBooks(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Book{}).Count(&count).Error; err != nil {
		return err
	}

	if count >= int64(len(canon)) {
		return nil
	}

	books := make([]*Book, 0, len(canon))
	for i, b := range canon {
		books = append(books, &Book{
			Name:         b.name,
			Abbreviation: b.abbr,
			Testament:    b.testament,
			ChapterCount: b.chapters,
			Position:     i + 1,
		})
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&books).Error
}

var canon = []struct {
	name      string
	abbr      string
	testament string
	chapters  int
}{
	{"Gênesis", "Gn", "old", 50},
	{"Êxodo", "Êx", "old", 40},
	{"Levítico", "Lv", "old", 27},
	{"Números", "Nm", "old", 36},
	{"Deuteronômio", "Dt", "old", 34},
	{"Josué", "Js", "old", 24},
	{"Juízes", "Jz", "old", 21},
	{"Rute", "Rt", "old", 4},
	{"1 Samuel", "1Sm", "old", 31},
	{"2 Samuel", "2Sm", "old", 24},
	{"1 Reis", "1Rs", "old", 22},
	{"2 Reis", "2Rs", "old", 25},
	{"1 Crônicas", "1Cr", "old", 29},
	{"2 Crônicas", "2Cr", "old", 36},
	{"Esdras", "Ed", "old", 10},
	{"Neemias", "Ne", "old", 13},
	{"Ester", "Et", "old", 10},
	{"Jó", "Jó", "old", 42},
	{"Salmos", "Sl", "old", 150},
	{"Provérbios", "Pv", "old", 31},
	{"Eclesiastes", "Ec", "old", 12},
	{"Cantares", "Ct", "old", 8},
	{"Isaías", "Is", "old", 66},
	{"Jeremias", "Jr", "old", 52},
	{"Lamentações", "Lm", "old", 5},
	{"Ezequiel", "Ez", "old", 48},
	{"Daniel", "Dn", "old", 12},
	{"Oséias", "Os", "old", 14},
	{"Joel", "Jl", "old", 3},
	{"Amós", "Am", "old", 9},
	{"Obadias", "Ob", "old", 1},
	{"Jonas", "Jn", "old", 4},
	{"Miquéias", "Mq", "old", 7},
	{"Naum", "Na", "old", 3},
	{"Habacuque", "Hc", "old", 3},
	{"Sofonias", "Sf", "old", 3},
	{"Ageu", "Ag", "old", 2},
	{"Zacarias", "Zc", "old", 14},
	{"Malaquias", "Ml", "old", 4},
	{"Mateus", "Mt", "new", 28},
	{"Marcos", "Mc", "new", 16},
	{"Lucas", "Lc", "new", 24},
	{"João", "Jo", "new", 21},
	{"Atos", "At", "new", 28},
	{"Romanos", "Rm", "new", 16},
	{"1 Coríntios", "1Co", "new", 16},
	{"2 Coríntios", "2Co", "new", 13},
	{"Gálatas", "Gl", "new", 6},
	{"Efésios", "Ef", "new", 6},
	{"Filipenses", "Fp", "new", 4},
	{"Colossenses", "Cl", "new", 4},
	{"1 Tessalonicenses", "1Ts", "new", 5},
	{"2 Tessalonicenses", "2Ts", "new", 3},
	{"1 Timóteo", "1Tm", "new", 6},
	{"2 Timóteo", "2Tm", "new", 4},
	{"Tito", "Tt", "new", 3},
	{"Filemom", "Fm", "new", 1},
	{"Hebreus", "Hb", "new", 13},
	{"Tiago", "Tg", "new", 5},
	{"1 Pedro", "1Pe", "new", 5},
	{"2 Pedro", "2Pe", "new", 3},
	{"1 João", "1Jo", "new", 5},
	{"2 João", "2Jo", "new", 1},
	{"3 João", "3Jo", "new", 1},
	{"Judas", "Jd", "new", 1},
	{"Apocalipse", "Ap", "new", 22},
}
