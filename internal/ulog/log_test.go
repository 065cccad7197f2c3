// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ulog

import (
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/require"
)

func TestLoggerReturnsDisabledForUnknownTag(t *testing.T) {
	require.Equal(t, slog.Disabled, Logger("NOPE"))
}

func TestLoggerReturnsRegisteredSubsystems(t *testing.T) {
	for _, tag := range []string{TagFinalization, TagStaking, TagProposer, TagChainParams, TagRepository} {
		require.NotEqual(t, slog.Disabled, Logger(tag), "tag %s", tag)
	}
}

func TestSetLogLevelsAppliesSingleLevelToEveryTag(t *testing.T) {
	require.NoError(t, SetLogLevels("debug"))
	for _, tag := range []string{TagFinalization, TagStaking, TagProposer} {
		require.Equal(t, slog.LevelDebug, Logger(tag).Level())
	}
}

func TestSetLogLevelsAppliesPerSubsystemPairs(t *testing.T) {
	require.NoError(t, SetLogLevels("FNL=trace,STK=warn"))
	require.Equal(t, slog.LevelTrace, Logger(TagFinalization).Level())
	require.Equal(t, slog.LevelWarn, Logger(TagStaking).Level())
}

func TestSetLogLevelsRejectsUnknownSubsystem(t *testing.T) {
	require.Error(t, SetLogLevels("ZZZ=info"))
}

func TestSetLogLevelsRejectsUnknownLevel(t *testing.T) {
	require.Error(t, SetLogLevels("bogus"))
}
