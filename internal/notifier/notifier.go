// Package notifier emits claim-indexed events to the external
// transactional-email sender. The core only needs to notify a user the
// first time a repository they claimed appears in the catalog; everything
// about how that email is rendered or delivered belongs to the sender.
package notifier

import "context"

// ClaimIndexedEvent is emitted the first time a claimed repository's skill
// first appears in the catalog.
type ClaimIndexedEvent struct {
	RecipientEmail string
	SkillID        string
	SkillName      string
	Owner          string
	Repo           string
}

// Sender delivers claim-indexed notifications.
type Sender interface {
	NotifyClaimIndexed(ctx context.Context, event ClaimIndexedEvent) error
}

// NoOp is a Sender that drops every notification; used when
// RESEND_API_KEY is not configured.
type NoOp struct{}

func (NoOp) NotifyClaimIndexed(ctx context.Context, event ClaimIndexedEvent) error { return nil }
