package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mealroute/archive"
	"mealroute/models"
	"mealroute/services"
)

func (b *Bot) adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	day := b.today().String()
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Today's tasks", "tasks:"+day),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 PDF", "pdf:"+day),
			tgbotapi.NewInlineKeyboardButtonData("📊 Excel", "xlsx:"+day),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚚 Send to drivers", "dispatch:"+day),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 Stats", "stats:"),
			tgbotapi.NewInlineKeyboardButtonData("⏳ Expiring", "expiring:"),
		),
	)
}

func (b *Bot) sendAdminPanel(chatID int64) {
	text := fmt.Sprintf("📋 %s admin\n\nToday is %s. Choose an action below:", b.cfg.Report.BusinessName, b.today())
	b.sendWithInline(chatID, text, b.adminKeyboard())
}

func (b *Bot) handleLogin(ctx context.Context, chatID, userID int64, args []string) {
	if b.isAdmin(userID) {
		b.sendAdminPanel(chatID)
		return
	}
	if len(args) != 1 {
		b.send(chatID, "Usage: /login <password>")
		return
	}
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	wait, err := services.AdminLogin(ctx, userID, args[0])
	switch {
	case errors.Is(err, services.ErrThrottled):
		b.send(chatID, fmt.Sprintf("⏳ Too many attempts. Try again in %d s.", wait))
		return
	case errors.Is(err, services.ErrInvalidPassword):
		b.send(chatID, "❌ Wrong password.")
		return
	case errors.Is(err, services.ErrNoAdminProfile):
		b.send(chatID, "No admin password set. Run: mealroute admin set-password")
		return
	case err != nil:
		b.sendError(chatID, err)
		return
	}
	b.setLoggedIn(userID)
	b.log.Infow("admin login", map[string]any{"tg_user_id": userID})
	b.sendAdminPanel(chatID)
}

func (b *Bot) handleTasks(ctx context.Context, chatID int64, day models.Date) {
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	tasks, err := b.gen.Generate(ctx, day, services.PurposeView)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	if err := b.sendCard(chatID, services.BuildAdminSummary(tasks)); err != nil {
		b.log.Errorf("send tasks: %v", err)
	}
}

// handleDispatch sends every linked driver their own card and logs each message.
func (b *Bot) handleDispatch(ctx context.Context, chatID int64, day models.Date, force bool) {
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	tasks, err := b.gen.Generate(ctx, day, services.PurposeDispatch)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	already, err := services.DispatchedStaff(ctx, day)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	targets, unlinked := services.DispatchTargets(tasks, already, force)

	sent, failed := 0, 0
	for _, g := range targets {
		card := services.BuildDriverCard(g, day)
		if err := b.sendCard(g.ChatID, card); err != nil {
			b.log.Warnf("dispatch to %s: %v", g.BoyName, err)
			failed++
			continue
		}
		sent++
		if err := services.SaveDispatchMessage(ctx, g.ChatID, g.DriverID, day, card.Text); err != nil {
			b.log.Errorf("save dispatch message: %v", err)
		}
	}
	b.sink.RecordDispatch(sent, failed)
	b.log.Infow("dispatch", map[string]any{"date": day.String(), "sent": sent, "failed": failed, "unlinked": len(unlinked)})
	b.send(chatID, formatDispatchResult(day, sent, failed, len(already), force, unlinked))
}

func (b *Bot) handleExpiring(ctx context.Context, chatID int64, args []string) {
	days := b.cfg.Report.ExpiringDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			b.send(chatID, "Usage: /expiring [days]")
			return
		}
		days = n
	}
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	today := b.today()
	list, err := services.ListExpiringClients(ctx, today, days)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.send(chatID, formatExpiring(list, today, days))
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	today := b.today()
	st, err := services.DashboardStats(ctx, today, b.cfg.Report.ExpiringDays)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	tasks, err := b.gen.Generate(ctx, today, services.PurposeStats)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.send(chatID, formatStats(st, tasks))
}

func (b *Bot) handleHistory(ctx context.Context, chatID int64) {
	runs, err := b.store.Query(ctx, archive.Query{Limit: 10})
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.send(chatID, formatHistory(runs, b.cfg.Report.Location()))
}

func (b *Bot) handleRenew(ctx context.Context, chatID int64, args []string) {
	if len(args) != 2 {
		b.send(chatID, "Usage: /renew <client_id> <days>")
		return
	}
	days, err := strconv.Atoi(args[1])
	if err != nil || days <= 0 {
		b.send(chatID, "Days must be a positive number.")
		return
	}
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	c, err := services.RenewClient(ctx, args[0], days, b.today())
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.send(chatID, fmt.Sprintf("✅ %s renewed: %s → %s", c.Name, c.StartDate, c.EndDate))
}

func (b *Bot) handleSetStatus(ctx context.Context, chatID int64, args []string, pause bool) {
	if len(args) != 1 {
		if pause {
			b.send(chatID, "Usage: /pause <client_id>")
		} else {
			b.send(chatID, "Usage: /resume <client_id>")
		}
		return
	}
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	var err error
	if pause {
		err = services.PauseClient(ctx, args[0])
	} else {
		err = services.ResumeClient(ctx, args[0])
	}
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	if pause {
		b.send(chatID, "⏸ Paused.")
	} else {
		b.send(chatID, "▶️ Resumed.")
	}
}

func (b *Bot) handleEvents(ctx context.Context, chatID int64) {
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	events, err := services.ListUpcomingEvents(ctx, b.today(), 10)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.send(chatID, formatEvents(events))
}

func (b *Bot) handleAddEvent(ctx context.Context, chatID int64, args []string) {
	e, err := parseEventArgs(args)
	if err != nil {
		b.send(chatID, err.Error())
		return
	}
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	id, err := services.CreateCateringEvent(ctx, e)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.send(chatID, fmt.Sprintf("✅ %s on %s %s saved (id %s). Due %d.", e.Name, e.Date, e.Time, id, e.Balance()))
}

func (b *Bot) handleDeleteEvent(ctx context.Context, chatID int64, args []string) {
	if len(args) != 1 {
		b.send(chatID, "Usage: /delevent <event_id>")
		return
	}
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	if err := services.DeleteCateringEvent(ctx, args[0]); err != nil {
		b.sendError(chatID, err)
		return
	}
	b.send(chatID, "🗑 Event deleted.")
}

// handleUnlink detaches a driver's Telegram chat, e.g. after a phone change.
// The driver links again by sharing their contact.
func (b *Bot) handleUnlink(ctx context.Context, chatID int64, args []string) {
	if len(args) != 1 {
		b.send(chatID, "Usage: /unlink <staff_id>")
		return
	}
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	staff, err := services.GetStaff(ctx, args[0])
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	if staff == nil {
		b.sendError(chatID, services.ErrStaffNotFound)
		return
	}
	if err := services.UnlinkStaffChat(ctx, staff.ID); err != nil {
		b.sendError(chatID, err)
		return
	}
	b.log.Infow("staff unlinked", map[string]any{"staff_id": staff.ID, "chat_id": staff.ChatID})
	b.send(chatID, fmt.Sprintf("🔗 %s unlinked from Telegram.", staff.Name))
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, args []string) {
	kind, id, err := parseRemoveArgs(args)
	if err != nil {
		b.send(chatID, err.Error())
		return
	}
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	switch kind {
	case "client":
		err = services.DeleteClient(ctx, id)
	case "staff":
		err = services.DeleteStaff(ctx, id)
	case "plan":
		err = services.DeletePlan(ctx, id)
	case "zone":
		err = services.DeleteZone(ctx, id)
	}
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.log.Infow("record removed", map[string]any{"kind": kind, "id": id})
	b.send(chatID, fmt.Sprintf("🗑 %s %s removed.", kind, id))
}

func (b *Bot) handleCollect(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		b.send(chatID, "Usage: /collect <staff_id> <amount> [note]")
		return
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		b.send(chatID, "Amount must be a positive number.")
		return
	}
	note := strings.Join(args[2:], " ")
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	staff, err := services.GetStaff(ctx, args[0])
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	if staff == nil {
		b.sendError(chatID, services.ErrStaffNotFound)
		return
	}
	if _, err := services.RecordCollection(ctx, staff.ID, amount, b.today(), note); err != nil {
		b.sendError(chatID, err)
		return
	}
	b.send(chatID, fmt.Sprintf("✅ Recorded %d from %s", amount, staff.Name))
}

func (b *Bot) handleLedger(ctx context.Context, chatID int64) {
	ctx, cancel := b.timeout(ctx)
	defer cancel()
	today := b.today()
	from := monthStart(today)
	list, err := services.CollectionTotals(ctx, from, today)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.send(chatID, formatLedger(list, from, today))
}
