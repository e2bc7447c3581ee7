package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/liquid-icx/licx-client/internal/constants"
	"github.com/liquid-icx/licx-client/internal/icon"
	"github.com/spf13/viper"
)

const envPrefix = "LICX"

type ClientSettings struct {
	LocalHost      string
	Port           string
	AllowedOrigins []string
	Dev            bool
}

type Network struct {
	Name      string
	Endpoint  string
	NID       int64
	LicxScore string
}

type Bridge struct {
	TransferStepLimit int64
	JoinStepLimit     int64
	RequestTimeout    time.Duration
}

type Config struct {
	ClientSettings *ClientSettings
	Network        *Network
	Bridge         *Bridge
}

// presets selected by LICX_ENV
var networks = map[string]Network{
	"mainnet": {
		Name:      "mainnet",
		Endpoint:  "https://ctz.solidwallet.io/api/v3",
		NID:       1,
		LicxScore: "cxb799844c58d5e5afb08ad4078566a78bd82d932c",
	},
	"testnet": {
		Name:      "testnet",
		Endpoint:  "https://bicon.net.solidwallet.io/api/v3",
		NID:       3,
		LicxScore: "cx4322ccf1ad0578a8909a162b9154170859c913eb",
	},
	"local": {
		Name:      "local",
		Endpoint:  "http://localhost:9000/api/v3",
		NID:       3,
		LicxScore: "cxf56bb59257b412183c6ed70d7a4ed371306a98d9",
	},
}

func Load() (*Config, error) {
	home, _ := os.UserHomeDir()
	paths := []string{
		filepath.Join(home, ".config", constants.AppName),
		filepath.Join(home, "config"),
		".",
	}
	return parse(paths, EmbeddedConfigYAML)
}

func parse(paths []string, embedded []byte) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(embedded)); err != nil {
		return nil, errors.Wrap(err, "read embedded config")
	}

	v.SetConfigName("config")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "merge config file")
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.ApplyNetworkFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyNetworkFromEnv swaps the network section for a preset when LICX_ENV is set.
func (c *Config) ApplyNetworkFromEnv() error {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(envPrefix + "_ENV")))
	if raw == "" {
		return nil
	}
	preset, ok := networks[raw]
	if !ok {
		return errors.Newf("invalid %s_ENV %q (allowed: mainnet, testnet, local)", envPrefix, raw)
	}
	c.Network = &preset
	return nil
}

func (c *Config) Validate() error {
	if c.ClientSettings == nil || c.Network == nil {
		return errors.New("config: ClientSettings and Network are required")
	}
	if c.Bridge == nil {
		c.Bridge = &Bridge{}
	}
	c.ClientSettings.LocalHost = strings.TrimSpace(c.ClientSettings.LocalHost)
	if c.ClientSettings.LocalHost == "" {
		c.ClientSettings.LocalHost = "127.0.0.1"
	}
	if strings.TrimSpace(c.ClientSettings.Port) == "" {
		return errors.New("config: ClientSettings.Port is required")
	}

	origins := c.ClientSettings.AllowedOrigins[:0]
	for _, o := range c.ClientSettings.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	c.ClientSettings.AllowedOrigins = origins

	if strings.TrimSpace(c.Network.Endpoint) == "" {
		return errors.New("config: Network.Endpoint is required")
	}
	if c.Network.NID <= 0 {
		return errors.Newf("config: invalid Network.NID %d", c.Network.NID)
	}
	c.Network.LicxScore = strings.ToLower(strings.TrimSpace(c.Network.LicxScore))
	if !icon.IsContract(c.Network.LicxScore) {
		return errors.Newf("config: invalid Network.LicxScore %q", c.Network.LicxScore)
	}

	b := c.Bridge
	if b.TransferStepLimit <= 0 {
		b.TransferStepLimit = constants.DefaultTransferStepLimit
	}
	if b.JoinStepLimit <= 0 {
		b.JoinStepLimit = constants.DefaultJoinStepLimit
	}
	if b.RequestTimeout < 0 {
		b.RequestTimeout = 0
	}
	return nil
}
