package config

import (
	"strings"

	"github.com/MirrorChyan/fetch-paper/internal/pkg/validator"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// NewViper returns a viper instance with every key registered, so that
// environment overrides reach Unmarshal. Flags are bound by the caller.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(APIBaseURLKey, DefaultBaseURL)
	v.SetDefault(APIUserAgentKey, DefaultUserAgent)
	v.SetDefault(APIMaxRedirectsKey, DefaultMaxRedirects)
	v.SetDefault(APIDialTimeoutKey, DefaultDialTimeout)
	v.SetDefault(APIConcurrencyKey, DefaultConcurrency)
	v.SetDefault(DownloadPathKey, DefaultPath)
	v.SetDefault(DownloadOverwriteKey, false)
	v.SetDefault(DownloadSkipChecksumKey, false)
	v.SetDefault(DownloadWriteChecksumKey, false)
	v.SetDefault(LogLevelKey, DefaultLogLevel)
	v.SetDefault(LogFileKey, "")
	v.SetDefault(LogMaxSizeKey, 10)
	v.SetDefault(LogMaxBackupsKey, 3)
	v.SetDefault(LogMaxAgeKey, 7)
	v.SetDefault(LogCompressKey, false)
	v.SetDefault(MetricsPushgatewayKey, "")
	v.SetDefault(MetricsJobKey, DefaultMetricsJob)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (explicit path, or fetch-paper.yaml in . or
// config/) into an immutable Config. A missing default file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType(DefaultConfigType)
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var c = new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config file")
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")

	if err := validator.Struct(c); err != nil {
		return nil, errors.WithMessage(err, "invalid config")
	}
	return c, nil
}
