package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smart-todo-scheduler/internal/ingestion"
	"smart-todo-scheduler/internal/model"
	"smart-todo-scheduler/pkg/ocr"
)

// extractContent gathers all text for one item: OCRed attachments when
// present, otherwise the inline body.
func (uc *implUseCase) extractContent(ctx context.Context, item model.SourceItem) (string, error) {
	attachments, err := uc.source.FetchAttachments(ctx, item)
	if err != nil {
		return "", fmt.Errorf("fetching attachments: %w", err)
	}

	if len(attachments) == 0 {
		body, err := uc.source.InlineBody(ctx, item)
		if err != nil {
			return "", fmt.Errorf("fetching inline body: %w", err)
		}
		if strings.TrimSpace(body) == "" {
			return "", ingestion.ErrNoContent
		}
		return body, nil
	}

	var text strings.Builder
	extracted := 0
	for _, att := range attachments {
		kind := ocr.KindForFilename(att.Filename)
		if kind == "" {
			uc.l.Infof(ctx, "item %s: skipping unsupported attachment %q", item.ID, att.Filename)
			continue
		}

		part, err := uc.extractor.ExtractText(ctx, att.Data, kind)
		if err != nil {
			return "", fmt.Errorf("extracting text from %q: %w", att.Filename, err)
		}
		if strings.TrimSpace(part) == "" {
			uc.l.Warnf(ctx, "item %s: attachment %q yielded no text", item.ID, att.Filename)
			continue
		}
		text.WriteString(part)
		text.WriteString("\n")
		extracted++
	}

	if extracted == 0 {
		return "", ingestion.ErrNoContent
	}
	return text.String(), nil
}

// buildEventDescription renders the provenance block attached to every
// materialized event.
func buildEventDescription(task model.Task, now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Priority: %s\n", task.Priority)
	fmt.Fprintf(&sb, "Source: '%s'\n", task.SourceLine)
	if task.LineNumber > 0 {
		fmt.Fprintf(&sb, "(Line %d)\n", task.LineNumber)
	}
	fmt.Fprintf(&sb, "Processed by smart-todo-scheduler on %s", now.Format("2006-01-02"))

	return sb.String()
}
