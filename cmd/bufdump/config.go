package main

import (
	"encoding/binary"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/encoding/charmap"
)

const defaultFormat = "bytes:16"

type Config struct {
	ConfigFile string `mapstructure:"config"`
	ChunkSize  int    `mapstructure:"chunksize"`
	Format     string `mapstructure:"format"`
	ByteOrder  string `mapstructure:"byteorder"`
	Charset    string `mapstructure:"charset"`
	LogLevel   string `mapstructure:"loglevel"`
	Verify     bool   `mapstructure:"verify"`
}

func defaultConfig() *Config {
	return &Config{
		ChunkSize: 4096,
		Format:    defaultFormat,
		ByteOrder: "be",
		Charset:   "",
		LogLevel:  "info",
	}
}

func setFlags(cmd *cobra.Command, cfg *Config) {
	bindFlags(cmd.PersistentFlags(), cfg)
}

func bindFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "path to an optional TOML config file")
	flags.IntVar(&cfg.ChunkSize, "chunksize", cfg.ChunkSize, "chunk size to replay stream files with")
	flags.StringVar(&cfg.Format, "format", cfg.Format, "comma-separated field list, e.g. u16be,u8,zstr,bytes:4,bits:12,str:8")
	flags.StringVar(&cfg.ByteOrder, "byteorder", cfg.ByteOrder, "default byte order for multi-byte fields (be or le)")
	flags.StringVar(&cfg.Charset, "charset", cfg.Charset, "charset for str fields (latin1, windows1252, koi8r); raw bytes if empty")
	flags.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.BoolVar(&cfg.Verify, "verify", cfg.Verify, "verify stream digests against their metadata sidecars")
}

// loadConfig merges an optional config file under the CLI flags. Flags
// set explicitly take priority over the file.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	cfg := defaultConfig()

	vip := viper.New()
	if err := vip.BindPFlags(cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	if file, _ := cmd.PersistentFlags().GetString("config"); file != "" {
		vip.SetConfigFile(file)
		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	}

	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}
	return cfg, nil
}

func (c *Config) order() (binary.ByteOrder, error) {
	switch c.ByteOrder {
	case "be":
		return binary.BigEndian, nil
	case "le":
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q (want be or le)", c.ByteOrder)
	}
}

func (c *Config) decoder() (*charmap.Charmap, error) {
	switch c.Charset {
	case "":
		return nil, nil
	case "latin1":
		return charmap.ISO8859_1, nil
	case "windows1252":
		return charmap.Windows1252, nil
	case "koi8r":
		return charmap.KOI8R, nil
	default:
		return nil, fmt.Errorf("unknown charset %q", c.Charset)
	}
}
