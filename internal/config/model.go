package config

import "time"

type (
	Config struct {
		API      APIConfig      `mapstructure:"api"`
		Download DownloadConfig `mapstructure:"download"`
		Log      LogConfig      `mapstructure:"log"`
		Metrics  MetricsConfig  `mapstructure:"metrics"`
	}

	APIConfig struct {
		BaseURL      string        `mapstructure:"base_url" validate:"required,url"`
		UserAgent    string        `mapstructure:"user_agent" validate:"required"`
		MaxRedirects int           `mapstructure:"max_redirects" validate:"gte=0"`
		DialTimeout  time.Duration `mapstructure:"dial_timeout" validate:"gte=0"`
		// Concurrency bounds metadata fan-out only.
		Concurrency int `mapstructure:"concurrency" validate:"gte=1"`
	}

	DownloadConfig struct {
		Path          string `mapstructure:"path" validate:"required"`
		Overwrite     bool   `mapstructure:"overwrite"`
		SkipChecksum  bool   `mapstructure:"skip_checksum"`
		WriteChecksum bool   `mapstructure:"write_checksum"`
	}

	LogConfig struct {
		Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error fatal"`
		File       string `mapstructure:"file"`
		MaxSize    int    `mapstructure:"max_size"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAge     int    `mapstructure:"max_age"`
		Compress   bool   `mapstructure:"compress"`
	}

	MetricsConfig struct {
		Pushgateway string `mapstructure:"pushgateway" validate:"omitempty,url"`
		Job         string `mapstructure:"job"`
	}
)
