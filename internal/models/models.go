package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"   json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
}

type Expense struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:50;not null"         json:"title"`
	Amount    float64   `gorm:"not null"                 json:"amount"`
	Category  string    `gorm:"size:20;not null;index"   json:"category"`
	Date      time.Time `gorm:"type:date;not null"       json:"-"`
	Notes     string    `json:"notes,omitempty"`
	UserID    uint      `gorm:"index;not null"           json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
