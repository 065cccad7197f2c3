// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unit-e/ued/internal/chainparams"
)

func TestLoadOptionsDefaultsToMainNet(t *testing.T) {
	dir := t.TempDir()
	opts, err := LoadOptions([]string{"-b", dir})
	require.NoError(t, err)
	require.Equal(t, chainparams.MainNetParams.NetworkName, opts.Params().NetworkName)
}

func TestLoadOptionsSelectsRegTest(t *testing.T) {
	dir := t.TempDir()
	opts, err := LoadOptions([]string{"-b", dir, "-regtest"})
	require.NoError(t, err)
	require.Equal(t, chainparams.RegTestParams.NetworkName, opts.Params().NetworkName)
}

func TestLoadOptionsRejectsTestNetAndRegTestTogether(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadOptions([]string{"-b", dir, "-testnet", "-regtest"})
	require.Error(t, err)
}

func TestLoadOptionsAppliesScalarOverrides(t *testing.T) {
	dir := t.TempDir()
	opts, err := LoadOptions([]string{
		"-b", dir,
		"-regtest",
		"-epoch_length", "10",
		"-stakesplitthreshold", "500",
	})
	require.NoError(t, err)
	p := opts.Params()
	require.EqualValues(t, 10, p.EpochLength)
	require.EqualValues(t, 500, p.StakeSplitThreshold)
}

func TestLoadOptionsAppliesCustomChainParamsFile(t *testing.T) {
	dir := t.TempDir()
	overridesPath := filepath.Join(dir, "overrides.json")
	require.NoError(t, os.WriteFile(overridesPath, []byte(`{"epoch_length": 7}`), 0o600))

	opts, err := LoadOptions([]string{"-b", dir, "-regtest", "-customchainparams", overridesPath})
	require.NoError(t, err)
	require.EqualValues(t, 7, opts.Params().EpochLength)
}

func TestLoadOptionsDefaultsDataAndLogDirs(t *testing.T) {
	dir := t.TempDir()
	opts, err := LoadOptions([]string{"-b", dir})
	require.NoError(t, err)
	require.Equal(t, dir, opts.DataDir)
	require.Equal(t, filepath.Join(dir, defaultLogDirname), opts.LogDir)
}
