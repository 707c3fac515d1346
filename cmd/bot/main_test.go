package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFinish_ErrorLoggedBeforeExit(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	code := finish(zap.New(core), errors.New("connect postgres: refused"))

	assert.Equal(t, 1, code)
	entries := logs.FilterMessage("Bot stopped with error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "connect postgres: refused", entries[0].ContextMap()["error"])
}

func TestFinish_CleanStop(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	code := finish(zap.New(core), nil)

	assert.Equal(t, 0, code)
	assert.Equal(t, 1, logs.FilterMessage("Bot stopped").Len())
}
