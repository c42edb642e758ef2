package config

// Application constants
const (
	AppName = "csvplot"

	// EnvPrefix namespaces every environment variable, e.g. CSVPLOT_SERVER_PORT
	EnvPrefix = "CSVPLOT"

	DefaultLogFile         = "logs/csvplot.log"
	DefaultMaxUploadBytes  = 64 << 20
	DefaultMultipartMemory = 32 << 20

	// Form fields of the explore endpoints
	FormFiles         = "files"
	FormColumns       = "columns"
	FormShowRaw       = "show_raw"
	FormShowStats     = "show_stats"
	FormShowPlots     = "show_plots"
	FormShowSubplots  = "show_subplots"
	FormShowPerColumn = "show_per_column"
)

// Version information, set at build time with -ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
