package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "XCM"

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL            string
	In                string
	FromBlock         uint64
	ToBlock           uint64
	BatchSize         int
	Workers           int
	Sink              string
	Out               string
	Errors            string
	PGDSN             string
	S3                S3Config
	Checkpoint        string
	CheckpointEnabled bool
	StateName         string
	SS58Prefix        uint64
	NativeToken       string
	RawAddressParas   []string
	MetricsAddr       string
	MaxRetries        int
	RetryBackoff      time.Duration
	LogLevel          string
}

// S3Config holds the object storage sink settings.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := newViper()

	v.SetDefault("batch-size", 500)
	v.SetDefault("sink", "jsonl")
	v.SetDefault("out", "./data/transfers.jsonl")
	v.SetDefault("errors", "./data/decode_errors.jsonl")
	v.SetDefault("checkpoint", "./data/checkpoint.json")
	v.SetDefault("checkpoint-enabled", true)
	v.SetDefault("state-name", "xcm_transfers")
	v.SetDefault("ss58-prefix", 2)
	v.SetDefault("native-token", "KSM")
	v.SetDefault("raw-address-paras", []string{"2023"})
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if err := readConfig(v, cfgFile, flags); err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:            v.GetString("rpc"),
		In:                v.GetString("in"),
		FromBlock:         v.GetUint64("from"),
		ToBlock:           v.GetUint64("to"),
		BatchSize:         v.GetInt("batch-size"),
		Workers:           v.GetInt("workers"),
		Sink:              strings.ToLower(strings.TrimSpace(v.GetString("sink"))),
		Out:               v.GetString("out"),
		Errors:            v.GetString("errors"),
		PGDSN:             v.GetString("pg-dsn"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		StateName:         v.GetString("state-name"),
		SS58Prefix:        v.GetUint64("ss58-prefix"),
		NativeToken:       v.GetString("native-token"),
		RawAddressParas:   getStringSlice(v, "raw-address-paras"),
		MetricsAddr:       v.GetString("metrics-addr"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		LogLevel:          v.GetString("log-level"),
	}
	cfg.S3 = S3Config{
		Bucket:          v.GetString("s3-bucket"),
		Prefix:          v.GetString("s3-prefix"),
		Region:          v.GetString("s3-region"),
		Endpoint:        v.GetString("s3-endpoint"),
		AccessKeyID:     v.GetString("s3-access-key-id"),
		SecretAccessKey: v.GetString("s3-secret-access-key"),
		ForcePathStyle:  v.GetBool("s3-force-path-style"),
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func readConfig(v *viper.Viper, cfgFile string, flags *pflag.FlagSet) error {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
