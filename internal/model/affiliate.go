package model

import (
	"io"
	"time"
)

// Affiliate is a registered member. Photo is nil when no picture was uploaded.
type Affiliate struct {
	ID         int64
	FirstName  string
	LastName   string
	NationalID string
	Email      string
	Phone      string
	Address    string
	Photo      *string
	CreatedAt  time.Time
}

// AffiliateInput holds the affiliate registration form.
type AffiliateInput struct {
	FirstName  string
	LastName   string
	NationalID string
	Email      string
	Phone      string
	Address    string
	Photo      *PhotoUpload
}

// PhotoUpload is an uploaded picture as received from the client.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
