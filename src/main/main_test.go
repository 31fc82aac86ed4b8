package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pixel-measure/src/config"
)

func TestNormalizeFlagDashes(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"pixel-measure", "--measure-now", "--other"}
	normalizeFlagDashes()
	assert.Equal(t, []string{"pixel-measure", "-measure-now", "--other"}, os.Args)

	os.Args = []string{"pixel-measure", "--measure-now=true"}
	normalizeFlagDashes()
	assert.Equal(t, []string{"pixel-measure", "-measure-now=true"}, os.Args)
}

func TestLoopConfirmDelay(t *testing.T) {
	assert.Equal(t, 150*time.Millisecond, loopConfirmDelay(&config.Config{ConfirmDelayMs: 150}))
	assert.Equal(t, 200*time.Millisecond, loopConfirmDelay(&config.Config{}))
}
