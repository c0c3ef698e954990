package redisx

import (
	"fmt"
	"time"
)

const (
	// Cart blob per user: cart:{user_id} -> JSON cart
	KeyCart = "cart:%s"
)

var TTLCart = 30 * 24 * time.Hour

func CartKey(userID string) string { return fmt.Sprintf(KeyCart, userID) }
