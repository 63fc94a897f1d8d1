package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Base struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	return nil
}

// Array stores a slice as a JSON column.
type Array[T any] []T

func (a Array[T]) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Array[T]) Scan(obj any) error {
	switch t := obj.(type) {
	case []byte:
		return json.Unmarshal(t, a)
	case string:
		return json.Unmarshal([]byte(t), a)
	}

	return errors.New("unsupported type")
}

// Map stores a freeform document as a JSON column.
type Map map[string]any

func (m Map) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Map) Scan(obj any) error {
	switch t := obj.(type) {
	case []byte:
		return json.Unmarshal(t, m)
	case string:
		return json.Unmarshal([]byte(t), m)
	}

	return errors.New("unsupported type")
}
