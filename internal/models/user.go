package models

import "time"

type User struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Phone    string    `json:"phone"`
	JoinDate time.Time `json:"join_date"`
}

// Notification is an inbox entry shown to the user.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"` // info, success, warning, error
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type PaymentMethod struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Popular     bool   `yaml:"popular" json:"popular"`
}
