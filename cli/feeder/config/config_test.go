package config

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
)

func init() {
	// To prevent log output during tests
	log.SetOutput(ioutil.Discard)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file, err := ioutil.TempFile("", "feeder_config_*.yaml")
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(file.Name()) })

	_, err = file.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	return file.Name()
}

func TestConfigLoad(t *testing.T) {
	cfg := `simulator: "XPLANE"
callsign: "BAW38"
aircraft_icao: "B788"
departure_icao: "EGLL"
arrival_icao: "RJAA"
simbrief_username: "pilot1"

api_url: "https://skytrack.example.com/api"
feeder_token: "s3cret"
api_timeout_ms: 1500

poll_interval_ms: 100
post_interval_ms: 1000
connect_retry_interval_ms: 3000
read_retry_interval_ms: 1000

xpuipc_address: "127.0.0.1:49010"
bridge_timeout_ms: 500

status_port: 8787
summary_cron: "@every 30m"

log_level: "DEBUG"
log_file_path: "/var/log/feeder.log"
log_max_age_days: 7

mirrors:
  options:
    skip_parked: "true"
  nats:
    host: "localhost"
    port: "4222"
    subject: "skytrack.telemetry"
`

	conf, err := New(writeConfig(t, cfg))
	if assert.NoError(t, err) {
		assert.Equal(t, Settings{
			Simulator:        "XPLANE",
			Callsign:         "BAW38",
			AircraftICAO:     "B788",
			DepartureICAO:    "EGLL",
			ArrivalICAO:      "RJAA",
			SimBriefUsername: "pilot1",

			APIURL:       "https://skytrack.example.com/api",
			FeederToken:  "s3cret",
			APITimeoutMs: 1500,

			PollIntervalMs:         100,
			PostIntervalMs:         1000,
			ConnectRetryIntervalMs: 3000,
			ReadRetryIntervalMs:    1000,

			XPUIPCAddress:   "127.0.0.1:49010",
			BridgeTimeoutMs: 500,

			StatusPort:  8787,
			SummaryCron: "@every 30m",

			LogLevel:      "DEBUG",
			LogFilePath:   "/var/log/feeder.log",
			LogMaxAgeDays: 7,

			Mirrors: map[string]map[string]string{
				"options": {
					"skip_parked": "true",
				},
				"nats": {
					"host":    "localhost",
					"port":    "4222",
					"subject": "skytrack.telemetry",
				},
			},
		}, conf)
	}
}

func TestConfigDefaults(t *testing.T) {
	conf, err := New(writeConfig(t, "# пустой файл\n"))
	require.NoError(t, err)

	assert.Equal(t, "MSFS", conf.Simulator)
	// Поля рейса остаются пустыми, их дозаполняет сборка контекста в main
	assert.Empty(t, conf.Callsign)
	assert.Empty(t, conf.AircraftICAO)
	assert.Equal(t, "http://localhost:8000/api", conf.APIURL)
	assert.Equal(t, "change-me-in-production", conf.FeederToken)
	assert.Equal(t, 2000, conf.APITimeoutMs)
	assert.Equal(t, 200, conf.PollIntervalMs)
	assert.Equal(t, 500, conf.PostIntervalMs)
	assert.Equal(t, 5000, conf.ConnectRetryIntervalMs)
	assert.Equal(t, 2000, conf.ReadRetryIntervalMs)
	assert.Equal(t, 1000, conf.BridgeTimeoutMs)
	assert.Equal(t, int32(0), conf.StatusPort)
	assert.Equal(t, "@every 1h", conf.SummaryCron)
	assert.Equal(t, 30, conf.LogMaxAgeDays)

	assert.Equal(t, 200*time.Millisecond, conf.GetPollInterval())
	assert.Equal(t, 500*time.Millisecond, conf.GetPostInterval())
	assert.Equal(t, types.SimulatorMSFS, conf.GetSimulator())
}

func TestConfigInvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		check       func(t *testing.T, conf Settings)
	}{
		{
			name:        "Unknown simulator",
			yamlContent: "simulator: \"FLIGHTGEAR\"\n",
			check: func(t *testing.T, conf Settings) {
				assert.Equal(t, "MSFS", conf.Simulator)
			},
		},
		{
			name:        "Negative poll interval",
			yamlContent: "poll_interval_ms: -5\n",
			check: func(t *testing.T, conf Settings) {
				assert.Equal(t, 200, conf.PollIntervalMs)
			},
		},
		{
			name:        "Status port out of range",
			yamlContent: "status_port: 70000\n",
			check: func(t *testing.T, conf Settings) {
				assert.Equal(t, int32(0), conf.StatusPort)
			},
		},
		{
			name:        "Negative log max age",
			yamlContent: "log_max_age_days: -1\n",
			check: func(t *testing.T, conf Settings) {
				assert.Equal(t, 30, conf.LogMaxAgeDays)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := New(writeConfig(t, tt.yamlContent))
			require.NoError(t, err)
			tt.check(t, conf)
		})
	}
}

func TestConfigMissingFile(t *testing.T) {
	_, err := New("/tmp/feeder_config_does_not_exist.yaml")
	assert.Error(t, err)
}

func TestGetFlightContext(t *testing.T) {
	conf, err := New(writeConfig(t, "simulator: \"P3D\"\ncallsign: \"AFL101\"\n"))
	require.NoError(t, err)

	assert.Equal(t, types.FlightContext{
		Callsign:  "AFL101",
		Simulator: types.SimulatorP3D,
	}, conf.GetFlightContext())
}

func TestGetMirrorStores(t *testing.T) {
	cfg := `mirrors:
  options:
    skip_parked: "true"
  nats:
    host: "localhost"
    port: "4222"
  redis:
    host: "localhost"
    port: "6379"
`
	conf, err := New(writeConfig(t, cfg))
	require.NoError(t, err)

	stores := conf.GetMirrorStores()
	assert.Len(t, stores, 2)
	assert.Contains(t, stores, "nats")
	assert.Contains(t, stores, "redis")
	assert.NotContains(t, stores, "options")
	assert.True(t, conf.GetMirrorSkipParked())
}

func TestGetMirrorSkipParked(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		expected    bool
	}{
		{"No mirrors section", "", false},
		{"No options key", "mirrors:\n  nats:\n    host: \"localhost\"\n", false},
		{"Explicit false", "mirrors:\n  options:\n    skip_parked: \"false\"\n", false},
		{"Explicit true", "mirrors:\n  options:\n    skip_parked: \"true\"\n", true},
		{"Garbage value", "mirrors:\n  options:\n    skip_parked: \"maybe\"\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := New(writeConfig(t, tt.yamlContent))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, conf.GetMirrorSkipParked())
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected log.Level
	}{
		{"DEBUG", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"WARN", log.WarnLevel},
		{"ERROR", log.ErrorLevel},
		{"TRACE", log.InfoLevel},
		{"", log.InfoLevel},
	}

	for _, tt := range tests {
		s := Settings{LogLevel: tt.level}
		assert.Equal(t, tt.expected, s.GetLogLevel(), "level %q", tt.level)
	}
}
