package telegram

import "strings"

// Action identifies what a worker or the admin asked for. Menu buttons send
// their label as plain text, so classification is by label.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionCheckIn
	ActionCheckOut
	ActionSchedule
	ActionContact
	ActionBack
	ActionAdminWorkers
	ActionAdminReport
	ActionAdminMonths
	ActionAdminOffice
	ActionAdminExport
)

// Worker-facing button labels. The workforce is Greek-speaking; Check In and
// Check Out stay in English because that is what the crews call them.
const (
	BtnCheckIn  = "✅ Check In"
	BtnCheckOut = "🚪 Check Out"
	BtnSchedule = "📅 Πρόγραμμα"
	BtnContact  = "📞 Επικοινωνία"
	BtnBack     = "🏠 Πίσω στο μενού"
	BtnLocation = "📍 Στείλε την τοποθεσία μου"
)

// Admin button labels.
const (
	BtnAdminWorkers = "👥 Εργαζόμενοι"
	BtnAdminReport  = "📊 Αναφορά ημέρας"
	BtnAdminMonths  = "🗓 Δημιουργία φύλλων"
	BtnAdminOffice  = "🏢 Γραφείο"
	BtnAdminExport  = "📥 Εξαγωγή μήνα"
)

// classify maps an incoming text message to an action. Commands double as
// fallbacks for users whose keyboard disappeared.
func classify(text string) Action {
	trimmed := strings.TrimSpace(text)

	// /export takes an optional month argument.
	if fields := strings.Fields(trimmed); len(fields) > 1 && fields[0] == "/export" {
		return ActionAdminExport
	}

	switch trimmed {
	case "/start":
		return ActionStart
	case BtnCheckIn, "/checkin":
		return ActionCheckIn
	case BtnCheckOut, "/checkout":
		return ActionCheckOut
	case BtnSchedule, "/schedule":
		return ActionSchedule
	case BtnContact, "/contact":
		return ActionContact
	case BtnBack, "/menu":
		return ActionBack
	case BtnAdminWorkers, "/workers":
		return ActionAdminWorkers
	case BtnAdminReport, "/report":
		return ActionAdminReport
	case BtnAdminMonths, "/months":
		return ActionAdminMonths
	case BtnAdminOffice, "/office":
		return ActionAdminOffice
	case BtnAdminExport, "/export":
		return ActionAdminExport
	}
	return ActionNone
}

// commandArgument returns whatever follows the command word, if anything.
func commandArgument(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}

// isAdminAction reports whether an action is restricted to the admin.
func isAdminAction(a Action) bool {
	switch a {
	case ActionAdminWorkers, ActionAdminReport, ActionAdminMonths, ActionAdminOffice, ActionAdminExport:
		return true
	}
	return false
}
