package cache

import (
	"fmt"
	"time"
)

const (
	// Per-user order list snapshot: orders_user_{user_id} -> []orders.Order
	keyUserOrders = "orders_user_%s"

	// Single user snapshot: user_{id} -> users.User
	keyUser = "user_%s"
)

// DefaultTTL bounds how long a stale snapshot can outlive the store.
var DefaultTTL = 5 * time.Minute

func UserOrdersKey(userID string) string { return fmt.Sprintf(keyUserOrders, userID) }

func UserKey(id string) string { return fmt.Sprintf(keyUser, id) }
