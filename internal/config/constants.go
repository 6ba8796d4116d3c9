package config

// Constants defining default values for application configuration
const (
	DefaultDBPath = "./daybook.db"

	DefaultServerPort = 8080
	DefaultServerHost = "" // Empty string means all interfaces

	DefaultInterval     = 0 // Minutes between ingestion cycles, 0 for one-shot
	DefaultCountry      = "us"
	DefaultPageSize     = 20
	DefaultSummaryLimit = 5

	DefaultLogLevel = "debug"
)
