package citizen

import (
	"strings"
	"time"
)

// Citizen represents a registered portal account.
type Citizen struct {
	ID             int64
	FirstName      string
	LastName       string
	DOB            string
	Gender         string
	Mobile         string
	Email          string
	PasswordHash   string
	Country        string
	State          string
	District       string
	City           string
	Pincode        string
	AddressLine1   string
	AddressLine2   string
	GovIDType      string
	GovIDLast4     string
	AltPhone       string
	Language       string
	NotifySMS      bool
	NotifyEmail    bool
	NotifyWhatsApp bool
	CreatedAt      time.Time
}

// Profile is the minimal view returned alongside session tokens.
type Profile struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// Profile derives the minimal view from a full record.
func (c Citizen) Profile() Profile {
	return Profile{
		ID:     c.ID,
		Email:  c.Email,
		Name:   strings.TrimSpace(c.FirstName + " " + c.LastName),
		Mobile: c.Mobile,
	}
}
