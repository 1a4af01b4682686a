package bot

// Command constants for Telegram bot commands.
const (
	CommandStart  = "/start"
	CommandHelp   = "/help"
	CommandCancel = "/cancel"
)
