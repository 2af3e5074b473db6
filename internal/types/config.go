package types

type RunMode string

const (
	// ModeLocal runs the API server against the configured store
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running just the API server
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// StoreType selects the persistence backend for invoices, the ownership
// registry, accounts and payment receipts
type StoreType string

const (
	StoreTypeMemory   StoreType = "memory"
	StoreTypePostgres StoreType = "postgres"
	StoreTypeBolt     StoreType = "bolt"
)

// EventTransport selects how domain events reach their consumers
type EventTransport string

const (
	EventTransportMemory EventTransport = "memory"
	EventTransportKafka  EventTransport = "kafka"
)
