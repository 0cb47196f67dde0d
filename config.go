package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the command line flags. Absent keys leave the flag values alone.
type fileConfig struct {
	Endpoint         string   `yaml:"endpoint"`
	Mode             string   `yaml:"mode"`
	RateMs           *float64 `yaml:"rate_ms"`
	MaxSamples       *int     `yaml:"max_samples"`
	MaxSpread        *float64 `yaml:"max_spread"`
	StreamTTL        string   `yaml:"stream_ttl"`
	Start            *uint    `yaml:"start"`
	User             string   `yaml:"user"`
	WaitTxTimestamps *bool    `yaml:"wait_tx_timestamps"`
}

func loadConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err = yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// apply copies the file settings into conf, skipping the flags named in set.
func (fc fileConfig) apply(conf *Config, set map[string]bool) error {
	if fc.Endpoint != "" && !set["ep"] {
		conf.ep = fc.Endpoint
	}
	if fc.Mode != "" && !set["mode"] {
		conf.mode = fc.Mode
	}
	if fc.RateMs != nil && !set["rate"] {
		conf.rate = *fc.RateMs
	}
	if fc.MaxSamples != nil && !set["max-samples"] {
		conf.maxSamples = *fc.MaxSamples
	}
	if fc.MaxSpread != nil && !set["max-spread"] {
		conf.maxSpread = *fc.MaxSpread
	}
	if fc.StreamTTL != "" && !set["stream-ttl"] {
		ttl, err := time.ParseDuration(fc.StreamTTL)
		if err != nil {
			return fmt.Errorf("stream_ttl: %w", err)
		}
		conf.streamTTL = ttl
	}
	if fc.Start != nil && !set["start"] {
		if err := checkStart(*fc.Start); err != nil {
			return fmt.Errorf("start: %w", err)
		}
		conf.start = *fc.Start
	}
	if fc.User != "" && !set["user"] {
		conf.user = fc.User
	}
	if fc.WaitTxTimestamps != nil && !set["wait-tx-timestamps"] {
		conf.usePoll = *fc.WaitTxTimestamps
	}
	return nil
}

// checkStart rejects simulator start values the 32-bit device counter cannot hold.
func checkStart(start uint) error {
	if start > math.MaxUint32 {
		return fmt.Errorf("%d does not fit the 32-bit device counter", start)
	}
	return nil
}
