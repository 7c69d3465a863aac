package complaint

import (
	"strings"
	"time"
)

// Priority levels. Any unrecognized input is coerced to Normal.
const (
	PriorityNormal    = "NORMAL"
	PriorityHigh      = "HIGH"
	PriorityEmergency = "EMERGENCY"
)

// Complaint lifecycle states. Progression beyond Registered belongs to the
// operations subsystem; this service only ever writes the initial state.
const (
	StatusRegistered      = "REGISTERED"
	StatusAssignedToHead  = "ASSIGNED_TO_HEAD"
	StatusAssignedToStaff = "ASSIGNED_TO_STAFF"
	StatusInProgress      = "IN_PROGRESS"
	StatusResolved        = "RESOLVED"
)

// NormalizePriority maps free-text input onto a known priority,
// case-insensitively, defaulting to Normal.
func NormalizePriority(p string) string {
	switch strings.ToUpper(strings.TrimSpace(p)) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityEmergency:
		return PriorityEmergency
	default:
		return PriorityNormal
	}
}

// Complaint is a registered grievance. CitizenID is nil for anonymous
// submissions through the public entry path.
type Complaint struct {
	ID            int64     `json:"id"`
	CitizenID     *int64    `json:"citizen_id,omitempty"`
	Title         string    `json:"title"`
	SubmitterName string    `json:"name,omitempty"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	City          string    `json:"city"`
	CategoryID    int32     `json:"-"`
	LocationID    int32     `json:"-"`
	Street        string    `json:"street,omitempty"`
	Address       string    `json:"address"`
	Landmark      string    `json:"landmark,omitempty"`
	Priority      string    `json:"priority"`
	ContactTime   string    `json:"contact_time,omitempty"`
	Proof         string    `json:"proof,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"-"`
}

// Stats summarizes a citizen's complaints. Pending counts every complaint
// not yet resolved.
type Stats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Closed  int `json:"closed"`
}

// CategoryInfo describes a selectable complaint category.
type CategoryInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Categories returns the selectable category catalog.
func Categories() []CategoryInfo {
	return []CategoryInfo{
		{ID: "Electricity", Title: "Electricity", Description: "Report power outages or wiring issues"},
		{ID: "Water", Title: "Water", Description: "Report water supply or leakage problems"},
		{ID: "Sanitation", Title: "Sanitation", Description: "Report sanitation and public hygiene issues"},
		{ID: "Road Damage", Title: "Road Damage", Description: "Report potholes or damaged roads"},
		{ID: "Street Light", Title: "Street Light", Description: "Report broken or flickering street lights"},
		{ID: "Public Safety", Title: "Public Safety", Description: "Report hazards affecting public safety"},
		{ID: "Drainage", Title: "Drainage", Description: "Report blocked or overflowing drains"},
		{ID: "Others", Title: "Others", Description: "Report other civic issues not listed above"},
	}
}
