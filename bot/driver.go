package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mealroute/models"
	"mealroute/services"
)

func (b *Bot) handleStart(ctx context.Context, chatID, userID int64) {
	if b.isAdmin(userID) {
		b.sendAdminPanel(chatID)
		return
	}
	staff, err := services.GetStaffByChatID(ctx, chatID)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	if staff != nil {
		b.sendDriverPanel(chatID, staff)
		return
	}
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact("📱 Share phone number")),
	)
	kb.OneTimeKeyboard = true
	msg := tgbotapi.NewMessage(chatID, "👋 Drivers: share your phone number to receive your daily list.\nAdmins: /login <password>")
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("send error: %v", err)
	}
}

func (b *Bot) sendDriverPanel(chatID int64, staff *models.Staff) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚚 Today's list", "driver:today"),
		),
	)
	b.sendWithInline(chatID, "🚗 "+staff.Name+"\n\nYour list arrives here every morning.", kb)
}

// handleContact links the chat to the staff member with the shared phone.
// Only the sender's own contact is accepted.
func (b *Bot) handleContact(ctx context.Context, chatID, userID int64, c *tgbotapi.Contact) {
	if c.UserID != 0 && c.UserID != userID {
		b.removeKeyboard(chatID, "Please share your own number.")
		return
	}
	staff, err := services.LinkStaffChat(ctx, c.PhoneNumber, chatID)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	if staff == nil {
		b.removeKeyboard(chatID, "❌ This number is not registered as staff. Ask the admin to add it.")
		return
	}
	b.log.Infow("driver linked", map[string]any{"staff_id": staff.ID, "chat_id": chatID})
	b.removeKeyboard(chatID, "✅ Linked as "+staff.Name)
	b.sendDriverPanel(chatID, staff)
}

func (b *Bot) handleDriverToday(ctx context.Context, chatID int64) {
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	staff, err := services.GetStaffByChatID(ctx, chatID)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	if staff == nil {
		b.send(chatID, "This chat is not linked to a driver. Send /start and share your phone number.")
		return
	}
	day := b.today()
	tasks, err := b.gen.Generate(ctx, day, services.PurposeDriver)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	g, ok := tasks.Groups[staff.ID]
	if !ok {
		g = &models.DriverTaskGroup{DriverID: staff.ID, BoyName: staff.Name}
	}
	if err := b.sendCard(chatID, services.BuildDriverCard(g, day)); err != nil {
		b.log.Errorf("send driver card: %v", err)
	}
}

func (b *Bot) removeKeyboard(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("send error: %v", err)
	}
}
