package config

// Config holds the configuration of the application
// Use config.LoadConfig to create a new instance
type Config struct {
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Uploads   UploadsConfig   `mapstructure:"uploads" yaml:"uploads"`
	Chatbot   ChatbotConfig   `mapstructure:"chatbot" yaml:"chatbot"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

type StoreConfig struct {
	Type     string         `mapstructure:"type" yaml:"type"     jsonschema:"enum=postgres,enum=memory"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

type ServerConfig struct {
	Host           string `mapstructure:"host" yaml:"host"`
	Port           int    `mapstructure:"port" yaml:"port"`
	WebEnabled     bool   `mapstructure:"web_enabled" yaml:"web_enabled"`
	MaxRequestSize int64  `mapstructure:"max_request_size" yaml:"max_request_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format" jsonschema:"enum=text,enum=json"`
}

type AuthConfig struct {
	Secret   string `mapstructure:"secret" yaml:"secret"`
	Required bool   `mapstructure:"required" yaml:"required"`
}

type UploadsConfig struct {
	// Path is the directory uploaded documents are written under.
	Path    string `mapstructure:"path" yaml:"path"`
	MaxSize int64  `mapstructure:"max_size" yaml:"max_size"`
}

type ChatbotConfig struct {
	// FormatResponses lays out matched response text before returning it.
	FormatResponses bool `mapstructure:"format_responses" yaml:"format_responses"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	Insecure    bool   `mapstructure:"insecure" yaml:"insecure"`
}
