package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saaspy/saaspy/internal/config"
)

func TestReport_Missing(t *testing.T) {
	var buf bytes.Buffer

	ok := report(&buf, config.Firebase{APIKey: "k", ProjectID: "saaspy-dev"}, false)

	assert.False(t, ok)
	out := buf.String()
	assert.Contains(t, out, "FIREBASE_API_KEY")
	assert.Contains(t, out, "FIREBASE_APP_ID")
	assert.Contains(t, out, "project: saaspy-dev")
	assert.Contains(t, out, "4 of 6 variables missing")
	assert.NotContains(t, out, "\x1b[", "colors disabled")
}

func TestReport_Complete(t *testing.T) {
	var buf bytes.Buffer

	ok := report(&buf, config.Firebase{
		APIKey:            "a",
		AuthDomain:        "b",
		ProjectID:         "c",
		StorageBucket:     "d",
		MessagingSenderID: "e",
		AppID:             "f",
	}, false)

	assert.True(t, ok)
	assert.Equal(t, 6, strings.Count(buf.String(), config.StatusSet))
	assert.Contains(t, buf.String(), "configuration complete")
}
