package models

import "time"

// Trial holds the protocol identifier targeting resolves trial ids through.
type Trial struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProtocolNumber string    `gorm:"uniqueIndex;size:64;not null" json:"protocol_number"`
	Name           string    `gorm:"size:255" json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Trial) TableName() string {
	return "trials"
}
