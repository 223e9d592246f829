package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mealroute/archive"
	"mealroute/config"
	"mealroute/logger"
	"mealroute/metrics"
	"mealroute/models"
	"mealroute/report"
	"mealroute/services"
)

// Deps are the collaborators the bot needs besides the Telegram API.
type Deps struct {
	Generator *services.Generator
	Sink      metrics.TaskSink
	Archive   archive.Store
	Log       logger.Logger
}

// Bot serves admins (ADMIN_ID or /login) and drivers (linked by phone) on one token.
type Bot struct {
	api   *tgbotapi.BotAPI
	cfg   *config.Config
	admin int64
	gen   *services.Generator
	sink  metrics.TaskSink
	store archive.Store
	log   logger.Logger

	loggedIn   map[int64]bool
	loggedInMu sync.RWMutex
}

func New(cfg *config.Config, deps Deps) (*Bot, error) {
	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("TOKEN not set")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	b := &Bot{
		api:      api,
		cfg:      cfg,
		admin:    cfg.Telegram.AdminID,
		gen:      deps.Generator,
		sink:     deps.Sink,
		store:    deps.Archive,
		log:      deps.Log,
		loggedIn: make(map[int64]bool),
	}
	if b.sink == nil {
		b.sink = metrics.NopSink{}
	}
	if b.store == nil {
		b.store = archive.NopStore{}
	}
	if b.log == nil {
		b.log = logger.New("bot")
	}
	b.log.Infof("authorized as @%s", api.Self.UserName)
	return b, nil
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Panel"},
		tgbotapi.BotCommand{Command: "today", Description: "My deliveries today"},
		tgbotapi.BotCommand{Command: "tasks", Description: "Daily task summary"},
		tgbotapi.BotCommand{Command: "pdf", Description: "Task sheet as PDF"},
		tgbotapi.BotCommand{Command: "xlsx", Description: "Task sheet as Excel"},
		tgbotapi.BotCommand{Command: "dispatch", Description: "Send drivers their lists"},
		tgbotapi.BotCommand{Command: "expiring", Description: "Subscriptions ending soon"},
		tgbotapi.BotCommand{Command: "stats", Description: "Dashboard"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Start processes updates until ctx is canceled.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		b.log.Warnf("set commands: %v", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(ctx, update.CallbackQuery)
			continue
		}
		if update.Message == nil || update.Message.From == nil {
			continue
		}
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	if msg.Contact != nil {
		b.handleContact(ctx, chatID, userID, msg.Contact)
		return
	}
	cmd, args := parseCommand(msg.Text)
	switch cmd {
	case "start":
		b.handleStart(ctx, chatID, userID)
		return
	case "today":
		b.handleDriverToday(ctx, chatID)
		return
	case "login":
		b.handleLogin(ctx, chatID, userID, args)
		return
	case "logout":
		b.clearLoggedIn(userID)
		b.send(chatID, "Logged out.")
		return
	case "":
		return
	}

	if !b.isAdmin(userID) {
		b.send(chatID, "Unauthorized. Use /login <password>.")
		return
	}
	switch cmd {
	case "tasks":
		b.withDate(chatID, args, func(day models.Date) { b.handleTasks(ctx, chatID, day) })
	case report.FormatPDF, report.FormatXLSX, report.FormatCSV:
		b.withDate(chatID, args, func(day models.Date) { b.sendReport(ctx, chatID, day, cmd) })
	case "dispatch":
		day, force, err := parseDispatchArgs(args, b.today())
		if err != nil {
			b.sendError(chatID, err)
			return
		}
		b.handleDispatch(ctx, chatID, day, force)
	case "expiring":
		b.handleExpiring(ctx, chatID, args)
	case "stats":
		b.handleStats(ctx, chatID)
	case "history":
		b.handleHistory(ctx, chatID)
	case "renew":
		b.handleRenew(ctx, chatID, args)
	case "pause":
		b.handleSetStatus(ctx, chatID, args, true)
	case "resume":
		b.handleSetStatus(ctx, chatID, args, false)
	case "events":
		b.handleEvents(ctx, chatID)
	case "addevent":
		b.handleAddEvent(ctx, chatID, args)
	case "delevent":
		b.handleDeleteEvent(ctx, chatID, args)
	case "unlink":
		b.handleUnlink(ctx, chatID, args)
	case "remove":
		b.handleRemove(ctx, chatID, args)
	case "collect":
		b.handleCollect(ctx, chatID, args)
	case "ledger":
		b.handleLedger(ctx, chatID)
	default:
		b.send(chatID, "Unknown command. /start shows the panel.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	b.answerCallback(cq, "")
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	action, arg, _ := strings.Cut(cq.Data, ":")

	if action == "driver" && arg == "today" {
		b.handleDriverToday(ctx, chatID)
		return
	}
	if !b.isAdmin(cq.From.ID) {
		b.send(chatID, "Unauthorized.")
		return
	}
	day := b.today()
	if arg != "" {
		d, err := models.ParseDate(arg)
		if err == nil {
			day = d
		}
	}
	switch action {
	case "tasks":
		b.handleTasks(ctx, chatID, day)
	case report.FormatPDF, report.FormatXLSX, report.FormatCSV:
		b.sendReport(ctx, chatID, day, action)
	case "dispatch":
		b.handleDispatch(ctx, chatID, day, false)
	case "stats":
		b.handleStats(ctx, chatID)
	case "expiring":
		b.handleExpiring(ctx, chatID, nil)
	}
}

func (b *Bot) today() models.Date {
	return models.Today(b.cfg.Report.Location())
}

func (b *Bot) withDate(chatID int64, args []string, fn func(models.Date)) {
	day, err := parseDateArg(args, b.today())
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	fn(day)
}

func (b *Bot) isAdmin(userID int64) bool {
	if b.admin != 0 && userID == b.admin {
		return true
	}
	b.loggedInMu.RLock()
	defer b.loggedInMu.RUnlock()
	return b.loggedIn[userID]
}

func (b *Bot) setLoggedIn(userID int64) {
	b.loggedInMu.Lock()
	b.loggedIn[userID] = true
	b.loggedInMu.Unlock()
}

func (b *Bot) clearLoggedIn(userID int64) {
	b.loggedInMu.Lock()
	delete(b.loggedIn, userID)
	b.loggedInMu.Unlock()
}

// cardMarkup converts CardContent.Buttons to a Telegram inline keyboard (URL vs callback).
func cardMarkup(c services.CardContent) *tgbotapi.InlineKeyboardMarkup {
	if len(c.Buttons) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range c.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			if btn.URL != "" {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
			}
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// sendCard sends c, splitting long text; the keyboard goes on the last chunk.
func (b *Bot) sendCard(chatID int64, c services.CardContent) error {
	chunks := splitMessage(c.Text, maxMessageLen)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if i == len(chunks)-1 {
			if kb := cardMarkup(c); kb != nil {
				msg.ReplyMarkup = *kb
			}
		}
		if _, err := b.api.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) send(chatID int64, text string) {
	if err := b.sendCard(chatID, services.CardContent{Text: text}); err != nil {
		b.log.Errorf("send error: %v", err)
	}
}

func (b *Bot) sendError(chatID int64, err error) {
	b.log.Warnf("chat %d: %v", chatID, err)
	b.send(chatID, "Error: "+err.Error())
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorf("send error: %v", err)
	}
}

func (b *Bot) sendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err := b.api.Send(doc)
	return err
}

func (b *Bot) answerCallback(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		b.log.Warnf("answer callback: %v", err)
	}
}

// sendReport renders the task sheet for day in format and sends it as a file.
func (b *Bot) sendReport(ctx context.Context, chatID int64, day models.Date, format string) {
	format, err := report.ParseFormat(format)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	tasks, err := b.gen.Generate(ctx, day, format)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	var buf bytes.Buffer
	err = report.Render(format, &buf, tasks, report.Options{BusinessName: b.cfg.Report.BusinessName})
	b.sink.RecordExport(format, err)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	total := tasks.Totals()
	caption := fmt.Sprintf("%s · Deliver %d · Collect %d", day, total.Tiffins, total.EmptyBoxes)
	if err := b.sendDocument(chatID, report.Filename(day, format), buf.Bytes(), caption); err != nil {
		b.sendError(chatID, fmt.Errorf("send document: %w", err))
	}
}

func (b *Bot) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 30*time.Second)
}
