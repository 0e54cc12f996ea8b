package constants

const (
	AppName            = "learnlit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/learnlit/learnlit.db"
	Version            = "v0.1.0"

	// EnvConnection overrides the storage target when no --config flag is given
	EnvConnection = "LEARNLIT_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used by the calendar command (YYYY-MM)
	MonthFormat = "2006-01"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "learnlit-"

	// Notify constants
	NotifierLockfileName   = "learnlit-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.learnlit"
	TrayExecutablePrefix   = "learnlit-tray"

	// MaxSubjectLength bounds the free-form subject text
	MaxSubjectLength = 100
)
