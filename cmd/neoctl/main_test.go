package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestImpactCmd(t *testing.T) {
	out, err := runCmd(t, "impact", "--diameter", "100", "--velocity", "20")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.InDelta(t, 75.09, result["energy_megatons"], 1e-9)
	assert.InDelta(t, 8.8, result["seismic_magnitude"], 1e-9)
}

func TestImpactCmd_RequiresFlags(t *testing.T) {
	_, err := runCmd(t, "impact", "--diameter", "100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "velocity")
}

func TestImpactCmd_InvalidInput(t *testing.T) {
	_, err := runCmd(t, "impact", "--diameter", "-1", "--velocity", "20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
}

func TestDeflectCmd(t *testing.T) {
	out, err := runCmd(t, "deflect", "--miss-distance", "10000", "--velocity", "15", "--delta-v", "0.01")
	require.NoError(t, err)
	assert.JSONEq(t, `{"new_miss_distance_km":10000.01,"clears_earth":true}`, out)
}

func TestDeflectCmd_ZeroVelocity(t *testing.T) {
	_, err := runCmd(t, "deflect", "--miss-distance", "10000", "--velocity", "0", "--delta-v", "0.01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "velocity must be greater than zero")
}

func TestAsteroidsCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cli-key", r.URL.Query().Get("api_key"))
		_, _ = io.WriteString(w, `{"element_count":1,"near_earth_objects":{"2024-04-26":[{"id":"54016468","name":"(2020 HS7)","estimated_diameter":{"meters":{"estimated_diameter_min":4,"estimated_diameter_max":8}},"close_approach_data":[{"relative_velocity":{"kilometers_per_second":"7.5"},"miss_distance":{"kilometers":"36000"}}]}]}}`)
	}))
	defer srv.Close()

	t.Setenv("NEO_FEED_URL", srv.URL)
	t.Setenv("NEO_API_KEY", "cli-key")
	t.Setenv("NEO_FEED_MAX_RETRIES", "0")

	out, err := runCmd(t, "asteroids")
	require.NoError(t, err)

	again, err := runCmd(t, "asteroids")
	require.NoError(t, err, "repeated runs in one process must not re-register metrics")
	assert.JSONEq(t, out, again)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "54016468", records[0]["id"])
	assert.InDelta(t, 6, records[0]["diameter_m"], 0)
}
