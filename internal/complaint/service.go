package complaint

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/civiceye/civiceye/internal/notification"
)

// ValidationError marks a submission rejected before any persistence.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Service handles complaint intake and session-scoped reads.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService creates the complaint service.
func NewService(repo Repository, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// CreateInput is the session-scoped intake payload.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Landmark    string `json:"landmark"`
	Priority    string `json:"priority"`
	Proof       string `json:"proof"`
}

// PublicCreateInput is the anonymous intake payload. It carries the extra
// free-text fields the public form collects, and an optional owner id.
type PublicCreateInput struct {
	CreateInput
	Name        string `json:"name"`
	Street      string `json:"street"`
	ContactTime string `json:"contact_time"`
	CitizenID   *int64 `json:"userId"`
}

// Create registers a complaint owned by the authenticated citizen.
func (s *Service) Create(ctx context.Context, citizenID int64, in CreateInput) (int64, error) {
	if err := validateIntake(in); err != nil {
		return 0, err
	}
	c := buildComplaint(in)
	c.CitizenID = &citizenID
	return s.persist(ctx, c)
}

// CreatePublic registers a complaint from the public entry path. The owner id
// is whatever the caller supplied, possibly nothing.
func (s *Service) CreatePublic(ctx context.Context, in PublicCreateInput) (int64, error) {
	if err := validateIntake(in.CreateInput); err != nil {
		return 0, err
	}
	if strings.TrimSpace(in.Street) == "" {
		return 0, &ValidationError{Msg: "street is required"}
	}
	c := buildComplaint(in.CreateInput)
	c.CitizenID = in.CitizenID
	c.SubmitterName = strings.TrimSpace(in.Name)
	c.Street = strings.TrimSpace(in.Street)
	c.ContactTime = strings.TrimSpace(in.ContactTime)
	return s.persist(ctx, c)
}

func (s *Service) persist(ctx context.Context, c Complaint) (int64, error) {
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("store complaint: %w", err)
	}

	// Best-effort: the response does not wait for this, and a delivery
	// failure stays between the notifier and the log.
	notification.Dispatch(s.logger, s.notifier,
		notification.NewComplaint(id, c.Title, c.City, c.Address, c.Priority))

	return id, nil
}

// ListByCitizen returns the citizen's complaints, newest first.
func (s *Service) ListByCitizen(ctx context.Context, citizenID int64) ([]Complaint, error) {
	return s.repo.ListByCitizen(ctx, citizenID)
}

// ListAll returns every registered complaint, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Complaint, error) {
	return s.repo.ListAll(ctx)
}

// Stats summarizes the citizen's complaints by resolution state.
func (s *Service) Stats(ctx context.Context, citizenID int64) (Stats, error) {
	return s.repo.StatsByCitizen(ctx, citizenID)
}

func validateIntake(in CreateInput) error {
	missing := func(field string) error {
		return &ValidationError{Msg: field + " is required"}
	}
	if strings.TrimSpace(in.Title) == "" {
		return missing("title")
	}
	if strings.TrimSpace(in.Description) == "" {
		return missing("description")
	}
	if strings.TrimSpace(in.Category) == "" {
		return missing("category")
	}
	if strings.TrimSpace(in.City) == "" {
		return missing("city")
	}
	if strings.TrimSpace(in.Address) == "" {
		return missing("address")
	}
	return nil
}

func buildComplaint(in CreateInput) Complaint {
	return Complaint{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		City:        strings.TrimSpace(in.City),
		Address:     strings.TrimSpace(in.Address),
		Landmark:    strings.TrimSpace(in.Landmark),
		Priority:    NormalizePriority(in.Priority),
		Proof:       strings.TrimSpace(in.Proof),
		Status:      StatusRegistered,
	}
}
