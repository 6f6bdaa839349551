package dto

import "time"

// CreateOrderRequest is the public intake form. Deadline is optional.
type CreateOrderRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	WhatsApp string  `json:"whatsapp" validate:"required,max=32"`
	Service  string  `json:"service" validate:"max=100"`
	Deadline *string `json:"deadline,omitempty" validate:"omitempty,max=64"`
	Detail   string  `json:"detail" validate:"required,max=5000"`
}

// CreateOrderResponse identifies the stored order.
type CreateOrderResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
