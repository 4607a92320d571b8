package notifier

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers claim-indexed notifications via Resend's
// transactional-email API.
type ResendSender struct {
	client      *resend.Client
	fromAddress string
}

// Config holds the Resend API key and the sender address to notify from.
type Config struct {
	APIKey      string
	FromAddress string
}

// New builds a ResendSender from cfg.
func New(cfg Config) *ResendSender {
	return &ResendSender{
		client:      resend.NewClient(cfg.APIKey),
		fromAddress: cfg.FromAddress,
	}
}

// NotifyClaimIndexed sends a plain-text email telling the claimant their
// repository's skill has been indexed.
func (s *ResendSender) NotifyClaimIndexed(ctx context.Context, event ClaimIndexedEvent) error {
	req := &resend.SendEmailRequest{
		From:    s.fromAddress,
		To:      []string{event.RecipientEmail},
		Subject: claimIndexedSubject(event),
		Text:    claimIndexedBody(event),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("notifier: send claim-indexed email: %w", err)
	}
	return nil
}

func claimIndexedSubject(event ClaimIndexedEvent) string {
	return fmt.Sprintf("%s has been indexed", event.SkillName)
}

func claimIndexedBody(event ClaimIndexedEvent) string {
	return fmt.Sprintf(
		"Your claimed skill %q (%s/%s) has been indexed as %s.",
		event.SkillName, event.Owner, event.Repo, event.SkillID,
	)
}
