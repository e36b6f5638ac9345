package models

import "time"

// Subscriber is one recorded landing-page signup. Rows in the backing
// sheet carry exactly these two fields, subscribedAt in RFC 3339.
type Subscriber struct {
	Email        string
	SubscribedAt time.Time
}
