// Package config loads settings from an optional YAML file and
// NOISEBOX_-prefixed environment variables, env taking precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type MQTT struct {
	Broker   string `mapstructure:"broker"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Topic    string `mapstructure:"topic"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Config struct {
	SampleRate      int    `mapstructure:"sample_rate"`
	BlockSize       int    `mapstructure:"block_size"`
	PrefetchSeconds int    `mapstructure:"prefetch_seconds"`
	RefillInterval  int    `mapstructure:"refill_interval"`
	RefillChunk     int    `mapstructure:"refill_chunk"`
	StateFile       string `mapstructure:"state_file"`
	MQTT            MQTT   `mapstructure:"mqtt"`
	Log             Log    `mapstructure:"log"`
}

func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("sample_rate", 48000)
	v.SetDefault("block_size", 128)
	v.SetDefault("prefetch_seconds", 30)
	v.SetDefault("refill_interval", 10)
	v.SetDefault("refill_chunk", 4800)
	v.SetDefault("state_file", "/var/lib/noisebox/state.json")
	v.SetDefault("mqtt.broker", "localhost")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.topic", "homeassistant/noisebox")
	v.SetDefault("log.level", "info")
	// Keys without another default still need registering: AutomaticEnv
	// only surfaces keys viper already knows about during Unmarshal.
	v.SetDefault("mqtt.user", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("log.file", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/noisebox")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("NOISEBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file; defaults and env vars apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if !strings.HasPrefix(cfg.MQTT.Broker, "tcp://") && !strings.HasPrefix(cfg.MQTT.Broker, "ssl://") {
		cfg.MQTT.Broker = "tcp://" + cfg.MQTT.Broker
	}

	return &cfg, nil
}
