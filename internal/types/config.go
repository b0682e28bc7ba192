package types

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// RunMode selects what the binary does when started without a subcommand.
type RunMode string

const (
	ModeLocal  RunMode = "local"
	ModeAPI    RunMode = "api"
	ModeReport RunMode = "report"
)

// SaleStore selects the backend the sales repository reads from.
type SaleStore string

const (
	SaleStorePostgres   SaleStore = "postgres"
	SaleStoreClickHouse SaleStore = "clickhouse"
)
