// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config defines the command-line and config-file surface for ued
// (§6 "CLI / config surface"), following the exccd/dcrd convention of a
// single options struct parsed by go-flags, first from an ini-style config
// file and then a second time from the command line so that flags take
// precedence over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/chainparams"
)

const (
	defaultConfigFilename = "ued.conf"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
)

// Options holds every recognized command-line and config-file option.
// Field order: config file and data/log directories first, then network
// selection, then the domain-specific knobs §6 lists.
type Options struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir    string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir     string `long:"logdir" description:"Directory to log output"`

	TestNet bool `long:"testnet" description:"Use the test network"`
	RegTest bool `long:"regtest" description:"Use the regression test network"`

	Reindex bool `long:"reindex" description:"Rebuild chain state and the finalization state database from block data on disk"`

	CustomChainParams string `long:"customchainparams" description:"Path to a JSON file of chain parameter overrides, applied on top of the selected network" optional-value:"customchainparams.json" optional:"true"`

	EpochLength         uint32 `long:"epoch_length" description:"Override the number of blocks per finalization epoch"`
	MinDepositSize      int64  `long:"min_deposit_size" description:"Override the minimum validator deposit size, in minor units"`
	Permissioning       bool   `long:"permissioning" description:"Enable permissioned-validator admin control"`
	StakeSplitThreshold int64  `long:"stakesplitthreshold" description:"Override the maximum size of a single staking output, in minor units"`
	StakeCombineMaximum int64  `long:"stakecombinemaximum" description:"Override the maximum total value of coins combined into one stake, in minor units"`
	RewardAddress       string `long:"rewardaddress" description:"Bech32 address finalization and immediate rewards are paid to"`

	activeParams chainparams.Parameters
}

// Params returns the fully resolved chain parameters: the network selected
// by -testnet/-regtest (mainnet otherwise), with -customchainparams and any
// of the individual override flags applied on top, in that order.
func (o *Options) Params() chainparams.Parameters {
	return o.activeParams
}

// LoadOptions parses args against the config file named by -C/-configfile
// (or the default under -datadir) and then a second time against args
// itself, so that command-line flags win over file settings -- the same
// two-pass shape exccd's loadConfig uses. It resolves the active network,
// applies -customchainparams and the scalar override flags, and returns
// the fully populated Options.
func LoadOptions(args []string) (*Options, error) {
	opts := &Options{}

	// First pass: recover -datadir/-configfile so the ini file location
	// can be determined before the real parse.
	preCfg := *opts
	preParser := flags.NewParser(&preCfg, flags.Default|flags.IgnoreUnknown)
	if _, err := preParser.ParseArgs(args); err != nil {
		return nil, err
	}

	if preCfg.DataDir == "" {
		preCfg.DataDir = defaultDataDirname
	}
	if preCfg.ConfigFile == "" {
		preCfg.ConfigFile = filepath.Join(preCfg.DataDir, defaultConfigFilename)
	}

	if _, err := os.Stat(preCfg.ConfigFile); err == nil {
		parser := flags.NewParser(opts, flags.Default)
		if err := flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", preCfg.ConfigFile, err)
		}
	}

	parser := flags.NewParser(opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if opts.DataDir == "" {
		opts.DataDir = defaultDataDirname
	}
	if opts.LogDir == "" {
		opts.LogDir = filepath.Join(opts.DataDir, defaultLogDirname)
	}

	if opts.TestNet && opts.RegTest {
		return nil, fmt.Errorf("config: -testnet and -regtest are mutually exclusive")
	}

	params, err := resolveParams(opts)
	if err != nil {
		return nil, err
	}
	opts.activeParams = params

	return opts, nil
}

func resolveParams(opts *Options) (chainparams.Parameters, error) {
	base := chainparams.MainNetParams
	switch {
	case opts.TestNet:
		base = chainparams.TestNetParams
	case opts.RegTest:
		base = chainparams.RegTestParams
	}

	if opts.CustomChainParams != "" {
		f, err := os.Open(opts.CustomChainParams)
		if err != nil {
			return chainparams.Parameters{}, fmt.Errorf("config: opening customchainparams: %w", err)
		}
		defer f.Close()
		base, err = chainparams.LoadOverrides(base, f)
		if err != nil {
			return chainparams.Parameters{}, err
		}
	}

	if opts.EpochLength != 0 {
		base.EpochLength = opts.EpochLength
	}
	if opts.MinDepositSize != 0 {
		base.MinDepositSize = chain.Amount(opts.MinDepositSize)
	}
	if opts.Permissioning {
		base.PermissioningEnabled = true
	}
	if opts.StakeSplitThreshold != 0 {
		base.StakeSplitThreshold = chain.Amount(opts.StakeSplitThreshold)
	}
	if opts.StakeCombineMaximum != 0 {
		base.StakeCombineMaximum = chain.Amount(opts.StakeCombineMaximum)
	}

	return base, nil
}
