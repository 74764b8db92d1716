// Package middleware wraps the handling of a Telegram update.
package middleware

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Bot is the part of *tgbotapi.BotAPI the middleware needs to notify users.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Next continues the chain
type Next func(tgbotapi.Update)

// participants extracts the sender and chat of an update; zeros when absent.
func participants(update tgbotapi.Update) (userID, chatID int64) {
	switch {
	case update.Message != nil:
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		if update.Message.Chat != nil {
			chatID = update.Message.Chat.ID
		}
	case update.CallbackQuery != nil:
		if update.CallbackQuery.From != nil {
			userID = update.CallbackQuery.From.ID
		}
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	}
	return userID, chatID
}
