package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Client is a customer record owning Google Calendar credentials.
// Email is the external identifier; Credentials holds the serialized OAuth
// token material and is empty until the authorization flow completes.
type Client struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Email       string          `gorm:"uniqueIndex;size:255" json:"email"`
	Credentials json.RawMessage `json:"credentials,omitempty"`
	Expiry      string          `json:"expiry,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (c Client) String() string {
	return fmt.Sprintf("<Client(id=%d, email=%s)>", c.ID, c.Email)
}
