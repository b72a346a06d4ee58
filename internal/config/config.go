// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config parses the pipeline's runtime tunables from the command
// line, the way btcd-family daemons in this codebase's lineage do it:
// struct tags read by jessevdk/go-flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"

	"github.com/blockrelay/blockparse/wire"
)

const (
	defaultNetwork        = "mainnet"
	defaultOrphanCapacity = 128
	defaultDedupCapacity  = 65536
	defaultLogFilename    = "blockparse.log"
)

// Config holds every pipeline tunable described in spec §4.4/§9: which
// network to accept blocks for, the orphanage's FIFO capacity, and the
// deduplicator's LRU capacity.
type Config struct {
	Network        string `long:"network" description:"Network to accept blocks for: mainnet, testnet3, or regtest" default:"mainnet"`
	OrphanCapacity int    `long:"orphan-capacity" description:"Maximum number of parent-less blocks the orphanage retains" default:"128"`
	DedupCapacity  uint   `long:"dedup-capacity" description:"Maximum number of block fingerprints the ingestor remembers" default:"65536"`
	LogDir         string `long:"logdir" description:"Directory to log output to"`
	Debug          string `long:"debuglevel" short:"d" description:"Logging level: trace, debug, info, warn, error, critical" default:"info"`
}

// defaultConfig returns a Config populated with the package defaults,
// used as the starting point before flag parsing overrides fields.
func defaultConfig() Config {
	return Config{
		Network:        defaultNetwork,
		OrphanCapacity: defaultOrphanCapacity,
		DedupCapacity:  defaultDedupCapacity,
		LogDir:         defaultLogDir(),
		Debug:          "info",
	}
}

func defaultLogDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, ".blockparse", "logs")
}

// LogFile returns the path of the rotated log file this config selects.
func (c *Config) LogFile() string {
	return filepath.Join(c.LogDir, defaultLogFilename)
}

// BitcoinNet resolves the configured network name to its wire.BitcoinNet
// magic, failing if the name is not one of the three recognized
// networks (§3).
func (c *Config) BitcoinNet() (wire.BitcoinNet, error) {
	switch c.Network {
	case "mainnet":
		return wire.MainNet, nil
	case "testnet3":
		return wire.TestNet3, nil
	case "regtest":
		return wire.RegTest, nil
	default:
		return 0, fmt.Errorf("config: unrecognized network %q", c.Network)
	}
}

// Parse parses os.Args into a Config, starting from the package
// defaults. Unlike a daemon's full config file + command line layering,
// this pipeline's surface is small enough for flags alone.
func Parse() (*Config, error) {
	cfg := defaultConfig()
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
