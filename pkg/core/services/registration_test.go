package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/model"
)

func TestRegisterWorker(t *testing.T) {
	roster := &fakeRoster{}

	worker, err := RegisterWorker(context.Background(), roster, zap.NewNop(), 111, "Maria Papadopoulou", "+306912345678")

	require.NoError(t, err)
	assert.Equal(t, int64(111), worker.TelegramID)
	assert.Equal(t, model.StatusRegistered, worker.Status)
	require.Len(t, roster.appended, 1)
	assert.Equal(t, "Maria Papadopoulou", roster.appended[0].Name)
}

func TestRegisterWorker_TrimsAnswers(t *testing.T) {
	roster := &fakeRoster{}

	worker, err := RegisterWorker(context.Background(), roster, zap.NewNop(), 111, "  Maria  ", " +3069123456 ")

	require.NoError(t, err)
	assert.Equal(t, "Maria", worker.Name)
	assert.Equal(t, "+3069123456", worker.Phone)
}

func TestRegisterWorker_NameTooShort(t *testing.T) {
	roster := &fakeRoster{}

	_, err := RegisterWorker(context.Background(), roster, zap.NewNop(), 111, "A", "+306912345678")

	assert.Error(t, err)
	assert.Empty(t, roster.appended)
}

func TestRegisterWorker_PhoneTooShort(t *testing.T) {
	roster := &fakeRoster{}

	_, err := RegisterWorker(context.Background(), roster, zap.NewNop(), 111, "Maria", "12345")

	assert.Error(t, err)
	assert.Empty(t, roster.appended)
}

func TestRegisterWorker_AlreadyRegistered(t *testing.T) {
	roster := &fakeRoster{workers: []model.Worker{
		{TelegramID: 111, Name: "Maria", Status: model.StatusRegistered},
	}}

	_, err := RegisterWorker(context.Background(), roster, zap.NewNop(), 111, "Maria Again", "+306912345678")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Empty(t, roster.appended)
}

func TestRegisterWorker_RosterError(t *testing.T) {
	roster := &fakeRoster{listErr: errors.New("api down")}

	_, err := RegisterWorker(context.Background(), roster, zap.NewNop(), 111, "Maria", "+306912345678")

	assert.Error(t, err)
	assert.Empty(t, roster.appended)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Al"))
	assert.Error(t, ValidateName("A"))
	assert.Error(t, ValidateName("   "))
}

func TestValidateName_CountsRunesNotBytes(t *testing.T) {
	// Greek letters are two UTF-8 bytes each; a single letter must still be
	// too short and two letters must pass.
	assert.Error(t, ValidateName("Α"))
	assert.NoError(t, ValidateName("Άν"))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("69123456"))
	assert.Error(t, ValidatePhone("1234567"))
}

func TestValidatePhone_CountsRunesNotBytes(t *testing.T) {
	// Seven multibyte runes are fourteen bytes but still one short.
	assert.Error(t, ValidatePhone("βββββββ"))
}
