package config

import (
	"github.com/spf13/pflag"
)

// DecodeConfig holds configuration for the decode command.
type DecodeConfig struct {
	In              string
	Out             string
	Errors          string
	Workers         int
	SS58Prefix      uint64
	NativeToken     string
	RawAddressParas []string
	LogLevel        string
}

// LoadDecode merges config file, environment variables, and flags into DecodeConfig.
func LoadDecode(cfgFile string, flags *pflag.FlagSet) (DecodeConfig, error) {
	v := newViper()

	v.SetDefault("out", "./data/transfers.jsonl")
	v.SetDefault("errors", "./data/decode_errors.jsonl")
	v.SetDefault("ss58-prefix", 2)
	v.SetDefault("native-token", "KSM")
	v.SetDefault("raw-address-paras", []string{"2023"})
	v.SetDefault("log-level", "info")

	if err := readConfig(v, cfgFile, flags); err != nil {
		return DecodeConfig{}, err
	}

	cfg := DecodeConfig{
		In:              v.GetString("in"),
		Out:             v.GetString("out"),
		Errors:          v.GetString("errors"),
		Workers:         v.GetInt("workers"),
		SS58Prefix:      v.GetUint64("ss58-prefix"),
		NativeToken:     v.GetString("native-token"),
		RawAddressParas: getStringSlice(v, "raw-address-paras"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}
