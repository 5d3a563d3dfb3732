package sheetsclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/model"
)

// The roster tab. Columns are telegram id, name, phone, status; the first
// row is a header.
const rosterRange = "WORKERS!A:D"

// ListWorkers retrieves and parses the full roster.
func (c *Client) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	values, err := c.getValues(ctx, rosterRange)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}

	return parseWorkers(values), nil
}

// FindWorkerByTelegramID returns the registered worker with the given
// Telegram id, or nil when no such worker exists.
func (c *Client) FindWorkerByTelegramID(ctx context.Context, telegramID int64) (*model.Worker, error) {
	workers, err := c.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range workers {
		if workers[i].TelegramID == telegramID {
			return &workers[i], nil
		}
	}
	return nil, nil
}

// AppendWorker adds a new worker row to the roster.
func (c *Client) AppendWorker(ctx context.Context, worker model.Worker) error {
	row := []interface{}{
		strconv.FormatInt(worker.TelegramID, 10),
		worker.Name,
		worker.Phone,
		worker.Status,
	}
	if err := c.appendRows(ctx, rosterRange, [][]interface{}{row}); err != nil {
		return fmt.Errorf("failed to append worker: %w", err)
	}
	return nil
}

// parseWorkers converts raw roster rows into Worker structs. The header row
// and rows without a parseable telegram id are skipped.
func parseWorkers(raw [][]interface{}) []model.Worker {
	workers := make([]model.Worker, 0, len(raw))
	for _, row := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(cellString(row, 0)), 10, 64)
		if err != nil {
			continue
		}

		workers = append(workers, model.Worker{
			TelegramID: id,
			Name:       strings.TrimSpace(cellString(row, 1)),
			Phone:      strings.TrimSpace(cellString(row, 2)),
			Status:     strings.TrimSpace(cellString(row, 3)),
		})
	}
	return workers
}
