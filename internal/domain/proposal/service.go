package proposal

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"racefinder/internal/domain/event"
	"racefinder/internal/pkg/validator"
)

// ApprovalPolicy tells Submit whether new proposals wait for review.
type ApprovalPolicy interface {
	RequireApproval(ctx context.Context) (bool, error)
}

type Service struct {
	repo     Repository
	policy   ApprovalPolicy
	notifier Notifier
	enricher Enricher
	strict   *bluemonday.Policy
	now      func() time.Time
}

func NewService(repo Repository, policy ApprovalPolicy, notifier Notifier, enricher Enricher) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Service{
		repo:     repo,
		policy:   policy,
		notifier: notifier,
		enricher: enricher,
		strict:   bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

// clean strips every tag; the result is plain text.
func (s *Service) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.strict.Sanitize(v)))
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest, clientIP string) (*Proposal, error) {
	req.Title = s.clean(req.Title)
	req.Municipality = s.clean(req.Municipality)
	req.Department = s.clean(req.Department)
	req.Organizer = s.clean(req.Organizer)
	req.Description = s.clean(req.Description)
	req.Category = s.clean(req.Category)
	req.RegistrationFee = s.clean(req.RegistrationFee)
	req.SubmitterName = s.clean(req.SubmitterName)
	req.SubmitterEmail = s.clean(req.SubmitterEmail)
	for i, d := range req.Distances {
		req.Distances[i] = s.clean(d)
	}

	if err := validator.Check(req); err != nil {
		return nil, err
	}
	date, _ := time.Parse("2006-01-02", req.EventDate)

	p := &Proposal{
		ID:              uuid.NewString(),
		Title:           req.Title,
		EventDate:       date,
		Municipality:    req.Municipality,
		Department:      req.Department,
		Organizer:       req.Organizer,
		Website:         strings.TrimSpace(req.Website),
		Description:     req.Description,
		Distances:       datatypes.NewJSONSlice(req.Distances),
		RegistrationFee: req.RegistrationFee,
		Category:        req.Category,
		AltitudeMeters:  req.AltitudeMeters,
		Status:          StatusPending,
		SubmitterName:   req.SubmitterName,
		SubmitterEmail:  req.SubmitterEmail,
		SubmitterIP:     clientIP,
	}

	requireApproval, err := s.policy.RequireApproval(ctx)
	if err != nil {
		log.WithError(err).Warn("approval policy unavailable, proposal stays pending")
		requireApproval = true
	}
	if !requireApproval {
		now := s.now().UTC()
		p.Status = StatusApproved
		p.ReviewedBy = ReviewerSystem
		p.ReviewedAt = &now
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"proposal_id": p.ID,
		"status":      p.Status,
	}).Info("proposal submitted")
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Proposal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status Status, page, limit int) ([]Proposal, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, Filter{Status: status, Limit: limit, Offset: (page - 1) * limit})
}

// Review records an admin decision. Repeating the current decision changes
// nothing, including reviewed_at. A decided proposal may be flipped to the
// other decision until it is published; nothing returns to pending.
func (s *Service) Review(ctx context.Context, id string, req ReviewRequest, reviewer string) (*Proposal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	if req.Decision != StatusApproved && req.Decision != StatusRejected {
		return nil, ErrInvalidDecision
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	reason := s.clean(req.Reason)

	var changed bool
	p, err := s.repo.Mutate(ctx, id, func(p *Proposal) (bool, error) {
		if p.IsPublished() {
			return false, ErrAlreadyPublished
		}
		if p.Status == req.Decision {
			return false, nil
		}

		now := s.now().UTC()
		p.Status = req.Decision
		p.ReviewedBy = reviewer
		p.ReviewedAt = &now
		p.RejectionReason = ""
		if req.Decision == StatusRejected {
			p.RejectionReason = reason
			if p.RejectionReason == "" {
				p.RejectionReason = DefaultRejectionReason
			}
		}
		changed = true
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		log.WithFields(log.Fields{
			"proposal_id": p.ID,
			"decision":    p.Status,
			"reviewer":    reviewer,
		}).Info("proposal reviewed")

		kind := NotifyApproved
		if p.Status == StatusRejected {
			kind = NotifyRejected
		}
		s.notify(ctx, kind, map[string]string{
			"proposal_id":      p.ID,
			"title":            p.Title,
			"submitter_email":  p.SubmitterEmail,
			"rejection_reason": p.RejectionReason,
		})
	}
	return p, nil
}

// Publish turns an approved proposal into a draft event. A second call
// returns the event created by the first with created=false.
func (s *Service) Publish(ctx context.Context, id string, admin string) (*event.Event, bool, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	var description string
	if s.enricher != nil && p.Status == StatusApproved && !p.IsPublished() {
		description, err = s.enricher.Enrich(ctx, p)
		if err != nil {
			log.WithError(err).WithField("proposal_id", id).Warn("enrichment failed, publishing submitted description")
			description = ""
		}
	}

	e, created, err := s.repo.Publish(ctx, id, func(p *Proposal) *event.Event {
		return eventFromProposal(p, description, admin)
	}, func(p *Proposal, e *event.Event) {
		now := s.now().UTC()
		p.PublishedEventID = &e.ID
		p.PublishedAt = &now
		p.PublishedBy = admin
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		log.WithFields(log.Fields{
			"proposal_id": id,
			"event_id":    e.ID,
			"admin":       admin,
		}).Info("proposal published")
		s.notify(ctx, NotifyPublished, map[string]string{
			"proposal_id":     id,
			"event_id":        e.ID,
			"title":           e.Title,
			"submitter_email": p.SubmitterEmail,
		})
	}
	return e, created, nil
}

func eventFromProposal(p *Proposal, description, admin string) *event.Event {
	if description == "" {
		description = p.Description
	}
	altitude := event.DefaultAltitudeMeters
	if p.AltitudeMeters != nil {
		altitude = *p.AltitudeMeters
	}
	source := p.ID

	return &event.Event{
		ID:               uuid.NewString(),
		Title:            p.Title,
		EventDate:        p.EventDate,
		Municipality:     p.Municipality,
		Department:       p.Department,
		Organizer:        p.Organizer,
		Category:         p.Category,
		Status:           event.StatusDraft,
		Distances:        datatypes.NewJSONSlice([]string(p.Distances)),
		RegistrationFee:  p.RegistrationFee,
		Website:          p.Website,
		Description:      description,
		AltitudeMeters:   altitude,
		SourceProposalID: &source,
		CreatedBy:        admin,
	}
}

func (s *Service) notify(ctx context.Context, kind string, payload map[string]string) {
	if err := s.notifier.Notify(ctx, kind, payload); err != nil {
		log.WithError(err).WithField("kind", kind).Warn("notification failed")
	}
}
