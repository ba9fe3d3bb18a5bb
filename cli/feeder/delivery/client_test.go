package delivery

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
	"github.com/daniil11ru/skytrack-feeder/libs/fsuipc"
)

func init() {
	log.SetOutput(ioutil.Discard)
}

func testPayload() *types.TelemetryPayload {
	return types.NewTelemetryPayload(
		&fsuipc.Telemetry{Altitude: 36745.4, Heading: 90.0},
		types.FlightContext{
			Callsign:      "JAL001",
			AircraftICAO:  "B789",
			DepartureICAO: "RJTT",
			ArrivalICAO:   "RJAA",
			Simulator:     types.SimulatorMSFS,
		},
		types.PhaseCruise,
		time.Unix(1710072645, 0),
	)
}

func TestClient_Post(t *testing.T) {
	var gotReq *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		gotBody, _ = ioutil.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-token", time.Second)
	ok := c.Post(testPayload())
	require.True(t, ok)

	require.NotNil(t, gotReq)
	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "/telemetry", gotReq.URL.Path)
	assert.Equal(t, "application/json", gotReq.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", gotReq.Header.Get("Accept"))
	assert.Equal(t, "secret-token", gotReq.Header.Get(TokenHeader))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, "JAL001", decoded["callsign"])
	assert.Equal(t, "CRUISE", decoded["flight_phase"])
	assert.Equal(t, 36745.4, decoded["altitude"])
}

func TestClient_PostTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/telemetry", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", "t", time.Second)
	assert.True(t, c.Post(testPayload()))
}

func TestClient_PostRejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "Server error", status: http.StatusInternalServerError},
		{name: "Bad token", status: http.StatusUnauthorized},
		{name: "Created is not OK", status: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := New(srv.URL, "t", time.Second)
			assert.False(t, c.Post(testPayload()))
		})
	}
}

func TestClient_PostServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, "t", time.Second)
	assert.False(t, c.Post(testPayload()))
}

func TestClient_PostTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "t", 50*time.Millisecond)
	assert.False(t, c.Post(testPayload()))
}
