package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/metropolitan-hq/attendance-bot/pkg/core/attendance"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/model"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/pending"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/schedule"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/services"
)

// handleUpdate routes one update. Every update gets its own request id so
// concurrent handler logs can be told apart.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	logger := b.logger.With(
		zap.String("request_id", uuid.New().String()),
		zap.Int64("user_id", msg.From.ID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Handler panicked", zap.Any("panic", r))
		}
	}()

	if msg.Location != nil {
		b.handleLocation(ctx, logger, msg)
		return
	}
	b.handleText(ctx, logger, msg)
}

func (b *Bot) handleText(ctx context.Context, logger *zap.Logger, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	action := classify(msg.Text)

	// Registration answers win over everything except a fresh /start.
	if flow := b.regFlowFor(userID); flow != nil && action != ActionStart {
		b.handleRegistrationAnswer(ctx, logger, msg, flow)
		return
	}

	worker, err := b.store.FindWorkerByTelegramID(ctx, userID)
	if err != nil {
		logger.Error("Roster lookup failed", zap.Error(err))
		b.reply(chatID, "⚠️ Κάτι πήγε στραβά. Δοκίμασε ξανά σε λίγο.")
		return
	}

	if worker == nil {
		b.setRegFlow(userID, &regFlow{stage: regAwaitName})
		b.reply(chatID, "👋 Καλώς ήρθες! Για να εγγραφείς, στείλε μου το ονοματεπώνυμό σου.")
		return
	}

	// Any text other than the actions below abandons a waiting location
	// request rather than leaving it to linger.
	if _, waiting := b.pending.Resolve(userID); waiting && action != ActionCheckIn && action != ActionCheckOut {
		b.pending.Complete(userID)
		b.reply(chatID, "ℹ️ Η ενέργεια που περίμενε τοποθεσία ακυρώθηκε.")
	}

	if isAdminAction(action) {
		if userID != b.cfg.AdminID {
			logger.Warn("Non-admin attempted admin action", zap.String("text", msg.Text))
			b.reply(chatID, "⛔ Αυτή η ενέργεια είναι μόνο για τον διαχειριστή.")
			return
		}
		b.handleAdmin(ctx, logger, chatID, action, commandArgument(msg.Text))
		return
	}

	switch action {
	case ActionCheckIn:
		b.beginAttendanceAction(logger, chatID, worker, model.ActionCheckIn)
	case ActionCheckOut:
		b.beginAttendanceAction(logger, chatID, worker, model.ActionCheckOut)
	case ActionSchedule:
		b.sendSchedule(ctx, logger, chatID, worker)
	case ActionContact:
		b.sendContact(chatID)
	default:
		b.sendMenu(ctx, chatID, worker)
	}
}

// beginAttendanceAction records the intent and asks for a live location.
func (b *Bot) beginAttendanceAction(logger *zap.Logger, chatID int64, worker *model.Worker, kind model.ActionKind) {
	result, existing := services.BeginAction(b.pending, logger, worker.TelegramID, worker.Name, kind)

	switch result {
	case pending.Conflict:
		b.reply(chatID, fmt.Sprintf("⚠️ Έχεις ήδη εκκρεμή ενέργεια (%s). Στείλε τοποθεσία ή πάτησε «%s».", actionLabel(existing.Kind), BtnBack))
		return
	case pending.AlreadyPending:
		// Same button pressed twice; just re-prompt.
	}

	prompt := tgbotapi.NewMessage(chatID, fmt.Sprintf("📍 Για %s, στείλε την τοποθεσία σου με το κουμπί.", actionLabel(kind)))
	prompt.ReplyMarkup = locationKeyboard()
	b.send(prompt)
}

func (b *Bot) handleLocation(ctx context.Context, logger *zap.Logger, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	outcome, err := services.ResolveLocation(ctx, b.pending, b.store, b.office, logger,
		userID, msg.Location.Latitude, msg.Location.Longitude, b.now())

	switch {
	case errors.Is(err, services.ErrNoPending):
		b.reply(chatID, "ℹ️ Δεν περιμένω τοποθεσία. Διάλεξε πρώτα Check In ή Check Out.")
	case errors.Is(err, services.ErrAlreadyCheckedIn):
		b.reply(chatID, "⚠️ Έχεις ήδη κάνει Check In σήμερα.")
	case errors.Is(err, services.ErrNotCheckedIn):
		b.reply(chatID, "⚠️ Δεν έχεις κάνει Check In σήμερα, δεν γίνεται Check Out.")
	case errors.Is(err, services.ErrShiftComplete):
		b.reply(chatID, "ℹ️ Η βάρδια σου για σήμερα έχει ήδη ολοκληρωθεί.")
	case err != nil:
		logger.Error("Location resolution failed", zap.Error(err))
		b.reply(chatID, "⚠️ Κάτι πήγε στραβά. Δοκίμασε ξανά σε λίγο.")
	case !outcome.Check.Within:
		b.reply(chatID, fmt.Sprintf("🚫 Είσαι %.0fμ από το γραφείο (όριο %.0fμ). Η ενέργεια δεν καταγράφηκε.",
			outcome.Check.DistanceMeters, outcome.Check.RadiusMeters))
	case outcome.Kind == model.ActionCheckIn:
		b.reply(chatID, fmt.Sprintf("✅ Check In στις %s. Καλή βάρδια!", outcome.Stamp))
	default:
		b.reply(chatID, fmt.Sprintf("🚪 Check Out στις %s. Καλό υπόλοιπο!", outcome.Stamp))
	}

	worker, lookupErr := b.store.FindWorkerByTelegramID(ctx, userID)
	if lookupErr != nil || worker == nil {
		return
	}
	b.sendMenu(ctx, chatID, worker)
}

func (b *Bot) handleRegistrationAnswer(ctx context.Context, logger *zap.Logger, msg *tgbotapi.Message, flow *regFlow) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	answer := strings.TrimSpace(msg.Text)

	switch flow.stage {
	case regAwaitName:
		if err := services.ValidateName(answer); err != nil {
			b.reply(chatID, "❗ Το όνομα είναι πολύ σύντομο. Στείλε το πλήρες ονοματεπώνυμό σου.")
			return
		}
		b.setRegFlow(userID, &regFlow{stage: regAwaitPhone, name: answer})
		b.reply(chatID, "📱 Ωραία! Τώρα στείλε μου το τηλέφωνό σου.")

	case regAwaitPhone:
		worker, err := services.RegisterWorker(ctx, b.store, logger, userID, flow.name, answer)
		if err != nil {
			if validationErr := services.ValidatePhone(answer); validationErr != nil {
				b.reply(chatID, "❗ Το τηλέφωνο δεν φαίνεται σωστό. Δοκίμασε ξανά.")
				return
			}
			logger.Error("Registration failed", zap.Error(err))
			b.setRegFlow(userID, nil)
			b.reply(chatID, "⚠️ Η εγγραφή απέτυχε. Στείλε /start για να ξαναπροσπαθήσεις.")
			return
		}

		b.setRegFlow(userID, nil)
		b.reply(chatID, fmt.Sprintf("🎉 Καλώς ήρθες, %s! Η εγγραφή ολοκληρώθηκε.", worker.Name))
		b.sendMenu(ctx, chatID, worker)
	}
}

func (b *Bot) handleAdmin(ctx context.Context, logger *zap.Logger, chatID int64, action Action, argument string) {
	switch action {
	case ActionAdminWorkers:
		workers, err := b.store.ListWorkers(ctx)
		if err != nil {
			logger.Error("Worker list failed", zap.Error(err))
			b.reply(chatID, "⚠️ Δεν μπόρεσα να διαβάσω τη λίστα εργαζομένων.")
			return
		}
		b.reply(chatID, formatWorkers(workers))

	case ActionAdminReport:
		report, err := services.BuildDailyReport(ctx, b.store, b.store, logger, b.now(), b.cfg.GracePeriod())
		if err != nil {
			logger.Error("Daily report failed", zap.Error(err))
			b.reply(chatID, "⚠️ Η αναφορά απέτυχε: "+err.Error())
			return
		}
		b.reply(chatID, formatReport(report))

	case ActionAdminMonths:
		results, err := services.EnsureUpcomingMonths(ctx, b.store, logger, b.now())
		if err != nil {
			logger.Error("Month tab creation failed", zap.Error(err))
			b.reply(chatID, "⚠️ Η δημιουργία φύλλων απέτυχε.")
			return
		}
		var sb strings.Builder
		sb.WriteString("🗓 Φύλλα παρουσιών:\n")
		for _, r := range results {
			if r.Created {
				sb.WriteString(fmt.Sprintf("• %s δημιουργήθηκε\n", r.Tab))
			} else {
				sb.WriteString(fmt.Sprintf("• %s υπήρχε ήδη\n", r.Tab))
			}
		}
		b.reply(chatID, sb.String())

	case ActionAdminOffice:
		b.reply(chatID, fmt.Sprintf("🏢 Γραφείο: %.6f, %.6f\n📏 Ακτίνα: %.0fμ", b.office.Lat, b.office.Lon, b.office.RadiusM))
		b.send(tgbotapi.NewLocation(chatID, b.office.Lat, b.office.Lon))

	case ActionAdminExport:
		month := b.now()
		if argument != "" {
			parsed, err := time.ParseInLocation("01_2006", argument, b.loc)
			if err != nil {
				b.reply(chatID, "❗ Μη έγκυρος μήνας. Γράψε π.χ. /export 06_2025.")
				return
			}
			month = parsed
		}

		buf, filename, err := services.ExportMonth(ctx, b.store, month)
		if errors.Is(err, services.ErrNoMonthData) {
			b.reply(chatID, "ℹ️ Δεν υπάρχουν δεδομένα για αυτόν τον μήνα.")
			return
		}
		if err != nil {
			logger.Error("Export failed", zap.Error(err))
			b.reply(chatID, "⚠️ Η εξαγωγή απέτυχε.")
			return
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: buf.Bytes()})
		doc.Caption = "📊 Παρουσίες μήνα"
		b.send(doc)
	}
}

func (b *Bot) sendSchedule(ctx context.Context, logger *zap.Logger, chatID int64, worker *model.Worker) {
	view, err := services.ViewWorkerSchedule(ctx, b.store, worker.Name, b.now())
	if err != nil {
		logger.Error("Schedule view failed", zap.Error(err))
		b.reply(chatID, "⚠️ Δεν μπόρεσα να διαβάσω το πρόγραμμα.")
		return
	}
	b.reply(chatID, formatSchedule(view, schedule.DayIndex(b.now())))
}

func (b *Bot) sendContact(chatID int64) {
	if b.cfg.AdminContactURL != "" {
		b.reply(chatID, "📞 Για οτιδήποτε χρειαστείς: "+b.cfg.AdminContactURL)
		return
	}
	b.reply(chatID, "📞 Μίλησε με τον υπεύθυνο βάρδιας για βοήθεια.")
}

// sendMenu sends the main menu with a keyboard matching the worker's fresh
// sheet state. When that state cannot be read the menu carries no
// check-in/check-out button at all; the sheet is the only source of truth.
func (b *Bot) sendMenu(ctx context.Context, chatID int64, worker *model.Worker) {
	status, err := services.CurrentStatus(ctx, b.store, worker.Name, b.now())
	if err != nil {
		b.logger.Warn("Menu status read failed", zap.Error(err))
		msg := tgbotapi.NewMessage(chatID, "⚠️ Δεν μπόρεσα να διαβάσω την κατάστασή σου. Δοκίμασε ξανά σε λίγο.")
		msg.ReplyMarkup = fallbackMenu(worker.TelegramID == b.cfg.AdminID)
		b.send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, menuText(status))
	msg.ReplyMarkup = mainMenu(status.State, worker.TelegramID == b.cfg.AdminID)
	b.send(msg)
}

func menuText(status attendance.Status) string {
	switch status.State {
	case attendance.CheckedIn:
		return fmt.Sprintf("🟢 Είσαι μέσα από τις %s.", status.TimeIn)
	case attendance.Complete:
		return fmt.Sprintf("🔵 Βάρδια %s – %s ολοκληρώθηκε.", status.TimeIn, status.TimeOut)
	default:
		return "🏠 Κεντρικό μενού"
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn("Telegram send failed", zap.Error(err))
	}
}

func actionLabel(kind model.ActionKind) string {
	if kind == model.ActionCheckOut {
		return "Check Out"
	}
	return "Check In"
}

func formatWorkers(workers []model.Worker) string {
	if len(workers) == 0 {
		return "ℹ️ Δεν υπάρχουν εγγεγραμμένοι εργαζόμενοι."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 Εργαζόμενοι (%d):\n", len(workers)))
	for i, w := range workers {
		sb.WriteString(fmt.Sprintf("%d. %s — %s\n", i+1, w.Name, w.Phone))
	}
	return sb.String()
}

func formatReport(report *services.DailyReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Αναφορά %s (%s)\n", report.Date.Format("02/01/2006"), report.Tab))
	sb.WriteString(fmt.Sprintf("Προγραμματισμένοι: %d\n\n", report.Expected()))

	writeBucket := func(title string, entries []services.ReportEntry, detail func(services.ReportEntry) string) {
		if len(entries) == 0 {
			return
		}
		sb.WriteString(fmt.Sprintf("%s (%d):\n", title, len(entries)))
		for _, e := range entries {
			sb.WriteString("• " + e.Name + detail(e) + "\n")
		}
		sb.WriteString("\n")
	}

	writeBucket("✅ Στην ώρα τους", report.OnTime, func(e services.ReportEntry) string {
		return " (" + e.TimeIn + ")"
	})
	writeBucket("🕐 Άργησαν", report.Late, func(e services.ReportEntry) string {
		return fmt.Sprintf(" (%s, βάρδια %s)", e.TimeIn, e.ShiftValue)
	})
	writeBucket("❌ Απόντες", report.Absent, func(e services.ReportEntry) string {
		return fmt.Sprintf(" (βάρδια %s)", e.ShiftValue)
	})
	writeBucket("❓ Άγνωστο", report.Unknown, func(e services.ReportEntry) string {
		return " («" + e.CellRaw + "»)"
	})

	return strings.TrimRight(sb.String(), "\n")
}

// formatSchedule renders both rotation weeks, marking today's line in the
// current week.
func formatSchedule(view *services.WorkerSchedule, todayIndex int) string {
	var sb strings.Builder

	writeWeek := func(title string, week services.WeekView, markDay int) {
		sb.WriteString(title + " (" + week.Tab + "):\n")
		if !week.Found {
			sb.WriteString("• Δεν υπάρχει πρόγραμμα ακόμη.\n")
			return
		}
		for i, day := range schedule.Days {
			value := week.Days[i]
			if !schedule.IsWorkValue(value) {
				value = "Ρεπό"
			}
			bullet := "•"
			if i == markDay {
				bullet = "👉"
			}
			sb.WriteString(fmt.Sprintf("%s %s: %s\n", bullet, day, value))
		}
	}

	writeWeek("📅 Αυτή την εβδομάδα", view.Current, todayIndex)
	sb.WriteString("\n")
	writeWeek("📅 Επόμενη εβδομάδα", view.Next, -1)

	return sb.String()
}
