package common

const (
	// LogSystemToken describes system log entry.
	LogSystemToken = "system"
	// LogBulbToken describes bulb name log entry.
	LogBulbToken = "bulb"
	// LogDeviceIDToken describes tuya device ID log entry.
	LogDeviceIDToken = "device_id"
	// LogDeviceHostToken describes device host log entry.
	LogDeviceHostToken = "host_ip"
	// LogProgramToken describes program name log entry.
	LogProgramToken = "program"
	// LogRunIDToken describes program run ID log entry.
	LogRunIDToken = "run_id"
	// LogColorToken describes RGB color log entry.
	LogColorToken = "color"
	// LogStageToken describes negotiation stage log entry.
	LogStageToken = "stage"
	// LogURLToken describes URL log entry.
	LogURLToken = "url"
	// LogScheduleToken describes cron schedule log entry.
	LogScheduleToken = "schedule"
)

const (
	// LogErrorToken describes error log entry.
	LogErrorToken = "error"
	// LogFileToken describes file log entry.
	LogFileToken = "file"
	// LogProviderToken describes provider log entry.
	LogProviderToken = "provider"
	// LogFieldToken describes field log entry.
	LogFieldToken = "field"
)

// AllBulbs is the selector addressing every configured bulb.
const AllBulbs = "all_bulbs"
