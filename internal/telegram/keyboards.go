package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/attendance"
)

// mainMenu builds the persistent reply keyboard. The check-in/check-out
// button reflects the worker's sheet state for today so the menu never
// offers an action that is guaranteed to fail.
func mainMenu(state attendance.State, isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	var first tgbotapi.KeyboardButton
	switch state {
	case attendance.CheckedIn:
		first = tgbotapi.NewKeyboardButton(BtnCheckOut)
	default:
		first = tgbotapi.NewKeyboardButton(BtnCheckIn)
	}

	rows := [][]tgbotapi.KeyboardButton{
		{first},
		{
			tgbotapi.NewKeyboardButton(BtnSchedule),
			tgbotapi.NewKeyboardButton(BtnContact),
		},
	}

	if isAdmin {
		rows = append(rows, adminRows()...)
	}

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// fallbackMenu is the menu sent when today's sheet state could not be read:
// no check-in/check-out button is offered on a guess.
func fallbackMenu(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{
			tgbotapi.NewKeyboardButton(BtnSchedule),
			tgbotapi.NewKeyboardButton(BtnContact),
		},
		{tgbotapi.NewKeyboardButton(BtnBack)},
	}

	if isAdmin {
		rows = append(rows, adminRows()...)
	}

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func adminRows() [][]tgbotapi.KeyboardButton {
	return [][]tgbotapi.KeyboardButton{
		{
			tgbotapi.NewKeyboardButton(BtnAdminWorkers),
			tgbotapi.NewKeyboardButton(BtnAdminReport),
		},
		{
			tgbotapi.NewKeyboardButton(BtnAdminMonths),
			tgbotapi.NewKeyboardButton(BtnAdminOffice),
		},
		{
			tgbotapi.NewKeyboardButton(BtnAdminExport),
		},
	}
}

// locationKeyboard offers the one-shot share-location button plus a way
// back. OneTimeKeyboard keeps the location prompt from lingering after use.
func locationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	locationBtn := tgbotapi.NewKeyboardButtonLocation(BtnLocation)

	kb := tgbotapi.NewReplyKeyboard(
		[]tgbotapi.KeyboardButton{locationBtn},
		[]tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(BtnBack)},
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}
