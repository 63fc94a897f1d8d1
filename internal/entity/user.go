package entity

type User struct {
	Base

	Email    string `gorm:"uniqueIndex"`
	Name     string
	IsActive bool
}
