package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/model"
)

// Minimum lengths accepted during registration.
const (
	MinNameLen  = 2
	MinPhoneLen = 8
)

// ValidateName checks a registration name answer. Lengths count runes, not
// bytes: names here are mostly Greek, two bytes per letter.
func ValidateName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < MinNameLen {
		return fmt.Errorf("name must be at least %d characters", MinNameLen)
	}
	return nil
}

// ValidatePhone checks a registration phone answer.
func ValidatePhone(phone string) error {
	if utf8.RuneCountInString(strings.TrimSpace(phone)) < MinPhoneLen {
		return fmt.Errorf("phone must be at least %d characters", MinPhoneLen)
	}
	return nil
}

// RegisterWorker validates the collected answers and appends the worker to
// the roster. Re-registration of an already known Telegram id is rejected
// without touching the sheet.
func RegisterWorker(ctx context.Context, roster RosterStore, logger *zap.Logger, telegramID int64, name, phone string) (*model.Worker, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}

	existing, err := roster.FindWorkerByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to check roster: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("telegram id %d is already registered as %s", telegramID, existing.Name)
	}

	worker := model.Worker{
		TelegramID: telegramID,
		Name:       name,
		Phone:      phone,
		Status:     model.StatusRegistered,
	}

	if err := roster.AppendWorker(ctx, worker); err != nil {
		return nil, fmt.Errorf("failed to append worker: %w", err)
	}

	logger.Info("Worker registered",
		zap.Int64("telegram_id", telegramID),
		zap.String("name", name))

	return &worker, nil
}
