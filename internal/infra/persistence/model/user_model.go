package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	BiometricKeys []*BiometricKeyModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// BiometricKeyModel mirrors the 'biometric_keys' table.
// The unique index on Fingerprint is what enforces global key uniqueness;
// application-level check-then-insert alone cannot, because it races.
type BiometricKeyModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	KeyHash     string    `gorm:"type:varchar(255);not null"`
	Fingerprint string    `gorm:"type:varchar(64);not null;unique"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (BiometricKeyModel) TableName() string {
	return "biometric_keys"
}
