package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"racefinder/internal/pkg/validator"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func ValidID(id string) bool {
	return validator.Var(id, "required,docid,max=128")
}

func (s *Service) Create(ctx context.Context, req CreateRequest, adminEmail string) (*Event, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = StatusDraft
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	date, _ := time.Parse(dateLayout, req.EventDate)
	altitude := DefaultAltitudeMeters
	if req.AltitudeMeters != nil {
		altitude = *req.AltitudeMeters
	}

	e := &Event{
		ID:              uuid.NewString(),
		Title:           req.Title,
		EventDate:       date,
		Municipality:    req.Municipality,
		Department:      req.Department,
		Organizer:       req.Organizer,
		Category:        req.Category,
		Status:          req.Status,
		Distances:       datatypes.NewJSONSlice(req.Distances),
		RegistrationFee: req.RegistrationFee,
		Website:         req.Website,
		Description:     req.Description,
		CoverImageURL:   req.CoverImageURL,
		AltitudeMeters:  altitude,
		CreatedBy:       adminEmail,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

// GetPublic hides anything that is not published.
func (s *Service) GetPublic(ctx context.Context, id string) (*Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusPublished {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *Service) ListPublic(ctx context.Context, category string, page, limit int) ([]Event, int64, error) {
	limit, offset := paginate(page, limit)
	return s.repo.List(ctx, Filter{Status: StatusPublished, Category: category, Limit: limit, Offset: offset})
}

func (s *Service) List(ctx context.Context, status Status, page, limit int) ([]Event, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	limit, offset := paginate(page, limit)
	return s.repo.List(ctx, Filter{Status: status, Limit: limit, Offset: offset})
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Event, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setString("title", req.Title)
	setString("municipality", req.Municipality)
	setString("department", req.Department)
	setString("organizer", req.Organizer)
	setString("category", req.Category)
	setString("registration_fee", req.RegistrationFee)
	setString("website", req.Website)
	setString("description", req.Description)
	setString("cover_image_url", req.CoverImageURL)
	if req.EventDate != nil {
		date, _ := time.Parse(dateLayout, *req.EventDate)
		updates["event_date"] = date
	}
	if req.Distances != nil {
		updates["distances"] = datatypes.NewJSONSlice(*req.Distances)
	}
	if req.AltitudeMeters != nil {
		updates["altitude_meters"] = *req.AltitudeMeters
	}
	if len(updates) == 0 {
		return nil, ErrEmptyUpdate
	}

	return s.repo.Update(ctx, id, updates)
}

// SetStatus moves an event to any of the three states.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Event, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.SetStatus(ctx, id, status)
}

// Delete is permanent regardless of status.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

func paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return limit, (page - 1) * limit
}
