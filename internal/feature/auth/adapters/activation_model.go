package adapters

import (
	"time"

	"account_backend/internal/feature/auth/domain/entity"
)

// ActivationModel is the GORM model for the user_activations table.
// UserID is both the primary key and the foreign key to users, so a user has at most one record.
type ActivationModel struct {
	UserID     uint         `gorm:"primaryKey;autoIncrement:false"`
	User       *entity.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Code       string       `gorm:"size:4;not null"`
	CreatedAt  time.Time    `gorm:"not null;autoCreateTime:false"`
	Generation uint         `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM.
func (ActivationModel) TableName() string {
	return "user_activations"
}

// ToEntity converts the GORM model to a domain entity.
func (m *ActivationModel) ToEntity() *entity.Activation {
	return &entity.Activation{
		UserID:     m.UserID,
		Code:       m.Code,
		CreatedAt:  m.CreatedAt.UTC(),
		Generation: m.Generation,
	}
}

// ActivationModelFromEntity converts a domain entity to a GORM model.
func ActivationModelFromEntity(a *entity.Activation) *ActivationModel {
	return &ActivationModel{
		UserID:     a.UserID,
		Code:       a.Code,
		CreatedAt:  a.CreatedAt.UTC(),
		Generation: a.Generation,
	}
}
