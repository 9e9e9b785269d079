package main

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_Defaults(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"-n", "1000", "-m", "4", "-t", "2"}, &stderr)
	assert.Equal(t, exitOK, code)

	out := stderr.String()
	assert.Contains(t, out, "Usage: locktest [-t nThreads=2] [-n size=1000] [-m repeat=4] [-l lockType=1]")
	assert.Contains(t, out, "Hash: 0 (should be 0")
}

func TestRun_OddRepeatGolden(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"-n", "64", "-m", "1", "-t", "1", "-l", "0"}, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr.String(), "Hash: aaaaaaaaaaaaaaaa (should be aaaaaaaaaaaaaaaa")
}

func TestRun_ConfigErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"zero-threads", []string{"-t", "0"}},
		{"zero-size", []string{"-n", "0"}},
		{"zero-repeat", []string{"-m", "0"}},
		{"negative-threads", []string{"-t", "-3"}},
		{"bad-lock-type", []string{"-l", "7"}},
		{"not-a-number", []string{"-n", "many"}},
		{"unknown-flag", []string{"-x"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, exitConfig, run(tc.args, &stderr))
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, exitOK, run([]string{"-h"}, &stderr))
	assert.Contains(t, stderr.String(), "lock type (0-5)")
}

// TestRun_NativeSpin checks that lock type 3 either runs or fails with a
// non-zero exit, depending on the host platform.
func TestRun_NativeSpin(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"-n", "1000", "-m", "2", "-t", "2", "-l", "3"}, &stderr)
	switch runtime.GOOS {
	case "darwin", "ios":
		assert.Equal(t, exitFail, code)
		assert.NotContains(t, stderr.String(), "Hash:")
	default:
		assert.Equal(t, exitOK, code)
		assert.Contains(t, stderr.String(), "Hash: 0")
	}
}
