package orders

import "time"

type Status string

// Orders are created pending; no further transitions are wired yet.
const StatusPending Status = "pending"

type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Product   string    `json:"product"`
	Price     float64   `json:"price"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
