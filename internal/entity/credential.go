package entity

import "time"

const ProviderGoogle = "google"

type CredentialStatus string

const (
	// CredentialActive means the stored tokens are usable, possibly after a
	// refresh.
	CredentialActive CredentialStatus = "active"

	// CredentialDisconnected is terminal. The provider rejected the refresh
	// token; only a fresh consent flow brings the credential back.
	CredentialDisconnected CredentialStatus = "disconnected"
)

type Credential struct {
	UserID   string `gorm:"primaryKey"`
	User     User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Provider string `gorm:"primaryKey"`

	AccessToken  string
	RefreshToken string
	Scopes       Array[string] `gorm:"type:text"`
	Expiry       time.Time
	Status       CredentialStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Credential) TableName() string {
	return "credentials"
}
