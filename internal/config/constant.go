package config

import "time"

const (
	DefaultConfigName = "fetch-paper"
	DefaultConfigType = "yaml"
	EnvPrefix         = "FETCH_PAPER"

	DefaultBaseURL      = "https://api.papermc.io/v2"
	DefaultUserAgent    = "fetch-paper/1.0"
	DefaultMaxRedirects = 5
	DefaultPath         = "./target.jar"
	DefaultLogLevel     = "info"
	DefaultMetricsJob   = "fetch-paper"
	DefaultConcurrency  = 4
	DefaultDialTimeout  = 10 * time.Second
)

// keys shared between defaults, env and flag bindings
const (
	APIBaseURLKey      = "api.base_url"
	APIUserAgentKey    = "api.user_agent"
	APIMaxRedirectsKey = "api.max_redirects"
	APIDialTimeoutKey  = "api.dial_timeout"
	APIConcurrencyKey  = "api.concurrency"

	DownloadPathKey          = "download.path"
	DownloadOverwriteKey     = "download.overwrite"
	DownloadSkipChecksumKey  = "download.skip_checksum"
	DownloadWriteChecksumKey = "download.write_checksum"

	LogLevelKey      = "log.level"
	LogFileKey       = "log.file"
	LogMaxSizeKey    = "log.max_size"
	LogMaxBackupsKey = "log.max_backups"
	LogMaxAgeKey     = "log.max_age"
	LogCompressKey   = "log.compress"

	MetricsPushgatewayKey = "metrics.pushgateway"
	MetricsJobKey         = "metrics.job"
)
