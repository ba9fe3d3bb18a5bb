package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
	"github.com/daniil11ru/skytrack-feeder/libs/fsuipc"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeFeed struct {
	status  types.FeederStatus
	payload *types.TelemetryPayload
}

func (ff *fakeFeed) Snapshot() types.FeederStatus         { return ff.status }
func (ff *fakeFeed) LastPayload() *types.TelemetryPayload { return ff.payload }

func serve(t *testing.T, feed *fakeFeed, path string) *httptest.ResponseRecorder {
	t.Helper()
	ctrl := NewController(NewHandler(feed))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	ctrl.engine.ServeHTTP(w, req)
	return w
}

func TestGetStatus(t *testing.T) {
	feed := &fakeFeed{status: types.FeederStatus{
		State:         types.StateStreaming,
		Simulator:     types.SimulatorMSFS,
		Callsign:      "JAL001",
		Connected:     true,
		PostAttempts:  40,
		Delivered:     38,
		LastPostAt:    1700000000,
		FlightPhase:   string(types.PhaseCruise),
		UptimeSeconds: 3600,
	}}

	w := serve(t, feed, "/status")

	require.Equal(t, http.StatusOK, w.Code)
	var got types.FeederStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, feed.status, got)
}

func TestGetStatusBeforeFirstFrame(t *testing.T) {
	feed := &fakeFeed{status: types.FeederStatus{
		State:     types.StateConnecting,
		Simulator: types.SimulatorXPlane,
		Callsign:  "JAL001",
	}}

	w := serve(t, feed, "/status")

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "CONNECTING", got["state"])
	assert.Equal(t, "", got["flight_phase"])
	assert.Equal(t, false, got["connected"])
}

func TestGetTelemetry(t *testing.T) {
	tel := &fsuipc.Telemetry{
		Latitude:  35.553678,
		Longitude: 139.792178,
		Altitude:  36745.4,
		IAS:       280.0,
	}
	flight := types.FlightContext{
		Callsign:      "JAL001",
		AircraftICAO:  "B789",
		DepartureICAO: "RJTT",
		ArrivalICAO:   "RJAA",
		Simulator:     types.SimulatorMSFS,
	}
	feed := &fakeFeed{
		payload: types.NewTelemetryPayload(tel, flight, types.PhaseCruise, time.Unix(1700000000, 0)),
	}

	w := serve(t, feed, "/telemetry")

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 35.553678, got["latitude"])
	assert.Equal(t, "CRUISE", got["flight_phase"])
	assert.Equal(t, "JAL001", got["callsign"])
	assert.Equal(t, float64(1700000000), got["timestamp"])
}

func TestGetTelemetryNotReady(t *testing.T) {
	w := serve(t, &fakeFeed{}, "/telemetry")

	require.Equal(t, http.StatusNotFound, w.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotEmpty(t, got["error"])
}
