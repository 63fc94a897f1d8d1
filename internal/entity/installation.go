package entity

// Installation links a user to a mantra materialized on the automation
// engine. EngineWorkflowID is the engine-side handle all later operations go
// through.
type Installation struct {
	Base

	MantraID string `gorm:"index:idx_installations_mantra_user"`
	Mantra   Mantra `gorm:"foreignKey:MantraID;constraint:OnDelete:CASCADE"`

	UserID string `gorm:"index:idx_installations_mantra_user"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	EngineWorkflowID string
	IsActive         bool
	Config           Map `gorm:"type:text"`
}
