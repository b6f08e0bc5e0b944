package interaction

import (
	"context"
	"time"

	"racefinder/internal/pkg/validator"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Save(ctx context.Context, userID, eventID string, req SaveRequest) (*Interaction, error) {
	if !validator.Var(eventID, "required,docid,max=128") {
		return nil, ErrInvalidEventID
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	in := &Interaction{
		UserID:     userID,
		EventID:    eventID,
		Liked:      req.Liked,
		Attended:   req.Attended,
		Interested: req.Interested,
		Rating:     req.Rating,
		Notes:      req.Notes,
	}
	if req.CompletedDate != nil {
		d, _ := time.Parse("2006-01-02", *req.CompletedDate)
		in.CompletedDate = &d
	}

	if err := s.repo.Upsert(ctx, in); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, eventID)
}

func (s *Service) Get(ctx context.Context, userID, eventID string) (*Interaction, error) {
	if !validator.Var(eventID, "required,docid,max=128") {
		return nil, ErrInvalidEventID
	}
	return s.repo.Get(ctx, userID, eventID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Interaction, error) {
	return s.repo.ListByUser(ctx, userID)
}
