package http

import (
	"time"

	"smart-todo-scheduler/internal/ingestion"
)

type itemResp struct {
	ItemID     string `json:"item_id"`
	Status     string `json:"status"`
	TaskCount  int    `json:"task_count"`
	EventCount int    `json:"event_count"`
	Error      string `json:"error,omitempty"`
}

type runResp struct {
	RunID     string     `json:"run_id"`
	StartedAt time.Time  `json:"started_at"`
	Processed int        `json:"processed"`
	Failed    int        `json:"failed"`
	Skipped   int        `json:"skipped"`
	Degraded  int        `json:"degraded"`
	Items     []itemResp `json:"items"`
}

func newRunResp(out ingestion.RunOutput) runResp {
	items := make([]itemResp, len(out.Items))
	for i, item := range out.Items {
		items[i] = itemResp{
			ItemID:     item.ItemID,
			Status:     string(item.Status),
			TaskCount:  item.TaskCount,
			EventCount: item.EventCount,
			Error:      item.Error,
		}
	}
	return runResp{
		RunID:     out.RunID,
		StartedAt: out.StartedAt,
		Processed: out.Processed,
		Failed:    out.Failed,
		Skipped:   out.Skipped,
		Degraded:  out.Degraded,
		Items:     items,
	}
}
