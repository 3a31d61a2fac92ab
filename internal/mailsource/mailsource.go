// Package mailsource adapts the Gmail client to the ingestion Source
// contract: candidate items are unread notification emails from the
// configured sender.
package mailsource

import (
	"context"

	"smart-todo-scheduler/internal/model"
	"smart-todo-scheduler/pkg/gmail"
	pkgLog "smart-todo-scheduler/pkg/log"
)

// Source lists and fetches notification emails.
type Source struct {
	l     pkgLog.Logger
	gmail *gmail.Client
	query string
}

// New creates a mail source. sender and subjectKeyword identify the
// notification emails carrying note scans.
func New(l pkgLog.Logger, client *gmail.Client, sender, subjectKeyword string) *Source {
	return &Source{
		l:     l,
		gmail: client,
		query: gmail.BuildSearchQuery(sender, subjectKeyword),
	}
}

// ListCandidateItems returns all messages matching the notification
// query.
func (s *Source) ListCandidateItems(ctx context.Context) ([]model.SourceItem, error) {
	ids, err := s.gmail.SearchMessages(ctx, s.query)
	if err != nil {
		return nil, err
	}

	items := make([]model.SourceItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, model.SourceItem{ID: id})
	}
	return items, nil
}

// FetchAttachments downloads the item's attachment blobs.
func (s *Source) FetchAttachments(ctx context.Context, item model.SourceItem) ([]model.Attachment, error) {
	msg, err := s.gmail.GetMessage(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	raw, err := s.gmail.FetchAttachments(ctx, msg)
	if err != nil {
		return nil, err
	}

	attachments := make([]model.Attachment, 0, len(raw))
	for _, a := range raw {
		attachments = append(attachments, model.Attachment{Filename: a.Filename, Data: a.Data})
	}
	return attachments, nil
}

// InlineBody returns the message's plain-text body.
func (s *Source) InlineBody(ctx context.Context, item model.SourceItem) (string, error) {
	msg, err := s.gmail.GetMessage(ctx, item.ID)
	if err != nil {
		return "", err
	}
	return gmail.BodyText(msg), nil
}

// MarkConsumed marks the message read. Failures are logged and
// swallowed; the ledger, not the unread flag, decides reprocessing.
func (s *Source) MarkConsumed(ctx context.Context, itemID string) bool {
	if err := s.gmail.MarkAsRead(ctx, itemID); err != nil {
		s.l.Warnf(ctx, "mailsource: could not mark %s read: %v", itemID, err)
		return false
	}
	return true
}
