package proposal

import (
	"context"

	log "github.com/sirupsen/logrus"
)

const (
	NotifyApproved  = "proposal.approved"
	NotifyRejected  = "proposal.rejected"
	NotifyPublished = "proposal.published"
)

// Notifier hands a flat payload to the email service after a transition.
type Notifier interface {
	Notify(ctx context.Context, kind string, payload map[string]string) error
}

// Enricher returns a replacement description for a proposal about to be
// published. An empty string keeps the submitted text.
type Enricher interface {
	Enrich(ctx context.Context, p *Proposal) (string, error)
}

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, kind string, payload map[string]string) error {
	fields := log.Fields{"kind": kind}
	for k, v := range payload {
		fields[k] = v
	}
	log.WithFields(fields).Info("notification")
	return nil
}
