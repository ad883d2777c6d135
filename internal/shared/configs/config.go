package configs

// Config holds all configuration for the analyzer and the report server.
// Keys match the JSON config file (REPORT_SIZE, LOG_DIR, ...), case-insensitively.
type Config struct {
	ReportSize         int     `mapstructure:"report_size" validate:"min=0"`
	ReportDir          string  `mapstructure:"report_dir" validate:"required"`
	ReportTemplateFile string  `mapstructure:"report_template_file" validate:"required"`
	LogDir             string  `mapstructure:"log_dir" validate:"required"`
	LogFile            string  `mapstructure:"log_file"` // empty means stderr
	ErrorLimit         float64 `mapstructure:"error_limit" validate:"min=0,max=1"`

	LogLevel    string `mapstructure:"log_level" validate:"required,oneof=trace debug info warn error"`
	MetricsFile string `mapstructure:"metrics_file"` // Prometheus textfile, empty disables
	ServerPort  int    `mapstructure:"server_port" validate:"required,min=1,max=65535"`
}

// defaults are applied before the config file is read.
var defaults = map[string]any{
	"report_size":          1000,
	"report_dir":           "./reports",
	"report_template_file": "./report.html",
	"log_dir":              "./log",
	"log_file":             "",
	"error_limit":          0.5,
	"log_level":            "info",
	"metrics_file":         "",
	"server_port":          8080,
}
