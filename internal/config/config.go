package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string          `yaml:"env" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	WebRTC    WebRTCConfig    `yaml:"webrtc"`
	Signaling SignalingConfig `yaml:"signaling"`
}

type HTTPConfig struct {
	Address string `yaml:"address" env-default:""`
}

type WebRTCConfig struct {
	STUNServers []string `yaml:"stun_servers" env-default:""`
}

type SignalingConfig struct {
	// AddressingMode is "broadcast" (to all other room members) or "unicast"
	// (to the message's explicit target).
	AddressingMode string `yaml:"addressing_mode" env:"SIGNALING_MODE" env-default:"broadcast"`
	// EventBuffer is the per-connection outbound queue size; a peer that
	// falls further behind starts losing events instead of stalling senders.
	EventBuffer int   `yaml:"event_buffer" env-default:"32"`
	ReadLimit   int64 `yaml:"read_limit" env-default:"65536"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	cfg.setDefaults()

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}

func (c *Config) setDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if len(c.WebRTC.STUNServers) == 0 {
		c.WebRTC.STUNServers = []string{"stun:stun.l.google.com:19302"}
	}
	if c.Signaling.AddressingMode == "" {
		c.Signaling.AddressingMode = "broadcast"
	}
	if c.Signaling.EventBuffer <= 0 {
		c.Signaling.EventBuffer = 32
	}
	if c.Signaling.ReadLimit <= 0 {
		c.Signaling.ReadLimit = 64 * 1024
	}
}
