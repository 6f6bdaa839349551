package models

import "time"

// Order is a client request submitted through the public intake form.
// Name, WhatsApp and Detail hold encoded values while at rest.
type Order struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	WhatsApp  string    `json:"whatsapp"`
	Service   string    `json:"service"`
	Deadline  *string   `json:"deadline,omitempty"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
