package models

// MConfig Structure
type MConfig struct {
	Name           string            `yaml:"name" envconfig:"NAME"`
	Host           string            `yaml:"host" envconfig:"HOST"`
	Port           int               `yaml:"port" envconfig:"PORT"`
	LogLevel       string            `yaml:"log_level" envconfig:"LOG_LEVEL"`
	GrpcHost       string            `yaml:"grpc_host" envconfig:"GRPC_HOST"`
	GrpcPort       int               `yaml:"grpc_port" envconfig:"GRPC_PORT"`
	AllowedOrigins []string          `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	Storage        MStorageConfig    `yaml:"storage" envconfig:"STORAGE"`
	Network        MNetworkConfig    `yaml:"network" envconfig:"NETWORK"`
	DataSource     MDataSourceConfig `yaml:"data_source" envconfig:"DATA_SOURCE"`
	Analysis       MAnalysisConfig   `yaml:"analysis" envconfig:"ANALYSIS"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type" envconfig:"DB_TYPE"`
	DBPath             string `yaml:"db_path" envconfig:"DB_PATH"`
	DBConnectionString string `yaml:"db_connection_string" envconfig:"DB_CONNECTION_STRING"`
}

type MNetworkConfig struct {
	Enabled        bool     `yaml:"enabled" envconfig:"ENABLED"`
	Proxies        []string `yaml:"proxies" envconfig:"PROXIES"`
	RequestTimeout int      `yaml:"timeout" envconfig:"TIMEOUT"`
	MaxRetries     int      `yaml:"retries" envconfig:"RETRIES"`
	UserAgent      string   `yaml:"user_agent" envconfig:"USER_AGENT"`
}

type MDataSourceConfig struct {
	Provider   string `yaml:"provider" envconfig:"PROVIDER"`
	BaseURL    string `yaml:"base_url" envconfig:"BASE_URL"`
	CSVDir     string `yaml:"csv_dir" envconfig:"CSV_DIR"`
	AutoAdjust bool   `yaml:"auto_adjust" envconfig:"AUTO_ADJUST"`
}

// MAnalysisConfig holds the estimator constants. Zero values fall back to
// 252 trading days and 20-observation windows.
type MAnalysisConfig struct {
	TradingDays     int `yaml:"trading_days" envconfig:"TRADING_DAYS"`
	RollingWindow   int `yaml:"rolling_window" envconfig:"ROLLING_WINDOW"`
	YangZhangWindow int `yaml:"yang_zhang_window" envconfig:"YANG_ZHANG_WINDOW"`
}
