package models

import "time"

// SupportRequest is a free-form message from the site's feedback form.
type SupportRequest struct {
	Name        string    `json:"name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	PhoneDigits string    `json:"phone_digits,omitempty"`
	Message     string    `json:"message,omitempty"`
	Page        string    `json:"page,omitempty"`
	Source      string    `json:"source,omitempty"`
	City        string    `json:"city,omitempty"`
	Company     string    `json:"company,omitempty"`
	IP          string    `json:"ip,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CallbackRequest asks the restaurant to phone the visitor back.
type CallbackRequest struct {
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone"`
	Page      string    `json:"page,omitempty"`
	Source    string    `json:"source,omitempty"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
