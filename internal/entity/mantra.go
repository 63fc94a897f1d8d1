package entity

// Mantra is a reusable workflow template. The definition document keeps the
// authoring shape with its placeholders; materialization happens at install
// time, per user.
type Mantra struct {
	Base

	Name        string
	Description string
	Definition  Map    `gorm:"type:text"`
	CreatedBy   string `gorm:"index"`
	IsActive    bool
}
