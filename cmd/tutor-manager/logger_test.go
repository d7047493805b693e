package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_Dev(t *testing.T) {
	var buf bytes.Buffer
	log := setupLogger("dev", &buf)

	log.Debug("details", "k", "v")
	log.Error("boom")

	out := buf.String()
	assert.Contains(t, out, "msg=details k=v")
	// The text handler quotes the escape codes.
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "[31mboom")
}

func TestSetupLogger_Prod(t *testing.T) {
	var buf bytes.Buffer
	log := setupLogger("prod", &buf)

	log.Debug("hidden")
	log.Info("created", "entity", "student")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "created", line["msg"])
	assert.Equal(t, "student", line["entity"])
}
