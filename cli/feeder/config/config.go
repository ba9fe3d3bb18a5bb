package config

/*
Описание конфигурационного файла фидера
*/

import (
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"gopkg.in/yaml.v2"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
)

// Служебный ключ секции mirrors, не являющийся зеркалом.
const mirrorOptionsKey = "options"

type Settings struct {
	Simulator        string `yaml:"simulator"`
	Callsign         string `yaml:"callsign"`
	AircraftICAO     string `yaml:"aircraft_icao"`
	DepartureICAO    string `yaml:"departure_icao"`
	ArrivalICAO      string `yaml:"arrival_icao"`
	SimBriefUsername string `yaml:"simbrief_username"`

	APIURL       string `yaml:"api_url"`
	FeederToken  string `yaml:"feeder_token"`
	APITimeoutMs int    `yaml:"api_timeout_ms"`

	PollIntervalMs         int `yaml:"poll_interval_ms"`
	PostIntervalMs         int `yaml:"post_interval_ms"`
	ConnectRetryIntervalMs int `yaml:"connect_retry_interval_ms"`
	ReadRetryIntervalMs    int `yaml:"read_retry_interval_ms"`

	FSUIPCAddress   string `yaml:"fsuipc_address"`
	XPUIPCAddress   string `yaml:"xpuipc_address"`
	BridgeTimeoutMs int    `yaml:"bridge_timeout_ms"`

	StatusPort  int32  `yaml:"status_port"`
	SummaryCron string `yaml:"summary_cron"`

	LogLevel      string `yaml:"log_level"`
	LogFilePath   string `yaml:"log_file_path"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`

	Mirrors map[string]map[string]string `yaml:"mirrors"`
}

func New(confPath string) (Settings, error) {
	c := Settings{}
	data, err := os.ReadFile(confPath)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, err
	}

	if c.Simulator == "" {
		c.Simulator = "MSFS"
	}
	if _, parseErr := types.ParseSimulatorKind(c.Simulator); parseErr != nil {
		log.Errorf("Invalid simulator (%q). Must be one of MSFS, P3D, FSX, XPLANE. Defaulting to MSFS.", c.Simulator)
		c.Simulator = "MSFS"
	}

	// Поля рейса здесь не заполняются: пустые значения сначала получает
	// шанс закрыть план SimBrief, и только потом значения по умолчанию.

	if c.APIURL == "" {
		c.APIURL = "http://localhost:8000/api"
	}
	if c.FeederToken == "" {
		c.FeederToken = "change-me-in-production"
	}

	c.APITimeoutMs = intervalOrDefault("api_timeout_ms", c.APITimeoutMs, 2000)
	c.PollIntervalMs = intervalOrDefault("poll_interval_ms", c.PollIntervalMs, 200)
	c.PostIntervalMs = intervalOrDefault("post_interval_ms", c.PostIntervalMs, 500)
	c.ConnectRetryIntervalMs = intervalOrDefault("connect_retry_interval_ms", c.ConnectRetryIntervalMs, 5000)
	c.ReadRetryIntervalMs = intervalOrDefault("read_retry_interval_ms", c.ReadRetryIntervalMs, 2000)
	c.BridgeTimeoutMs = intervalOrDefault("bridge_timeout_ms", c.BridgeTimeoutMs, 1000)
	c.LogMaxAgeDays = intervalOrDefault("log_max_age_days", c.LogMaxAgeDays, 30)

	if c.StatusPort < 0 || c.StatusPort > 65535 {
		log.Errorf("Invalid status_port (%d). Must be between 0 and 65535. Defaulting to 0 (disabled).", c.StatusPort)
		c.StatusPort = 0
	}

	if c.SummaryCron == "" {
		c.SummaryCron = "@every 1h"
	}

	return c, err
}

func intervalOrDefault(name string, value, def int) int {
	if value == 0 {
		return def
	}
	if value < 0 {
		log.Errorf("Invalid %s (%d). Defaulting to %d.", name, value, def)
		return def
	}
	return value
}

func (s *Settings) GetSimulator() types.SimulatorKind {
	kind, err := types.ParseSimulatorKind(s.Simulator)
	if err != nil {
		return types.SimulatorMSFS
	}
	return kind
}

func (s *Settings) GetFlightContext() types.FlightContext {
	return types.FlightContext{
		Callsign:      s.Callsign,
		AircraftICAO:  s.AircraftICAO,
		DepartureICAO: s.DepartureICAO,
		ArrivalICAO:   s.ArrivalICAO,
		Simulator:     s.GetSimulator(),
	}
}

func (s *Settings) GetAPITimeout() time.Duration {
	return time.Duration(s.APITimeoutMs) * time.Millisecond
}

func (s *Settings) GetPollInterval() time.Duration {
	return time.Duration(s.PollIntervalMs) * time.Millisecond
}

func (s *Settings) GetPostInterval() time.Duration {
	return time.Duration(s.PostIntervalMs) * time.Millisecond
}

func (s *Settings) GetConnectRetryInterval() time.Duration {
	return time.Duration(s.ConnectRetryIntervalMs) * time.Millisecond
}

func (s *Settings) GetReadRetryInterval() time.Duration {
	return time.Duration(s.ReadRetryIntervalMs) * time.Millisecond
}

func (s *Settings) GetBridgeTimeout() time.Duration {
	return time.Duration(s.BridgeTimeoutMs) * time.Millisecond
}

func (s *Settings) GetLogLevel() log.Level {
	var lvl log.Level

	switch s.LogLevel {
	case "DEBUG":
		lvl = log.DebugLevel
	case "INFO":
		lvl = log.InfoLevel
	case "WARN":
		lvl = log.WarnLevel
	case "ERROR":
		lvl = log.ErrorLevel
	default:
		lvl = log.InfoLevel
	}
	return lvl
}

// GetMirrorStores возвращает секции зеркал без служебного ключа options.
func (s *Settings) GetMirrorStores() map[string]map[string]string {
	stores := make(map[string]map[string]string, len(s.Mirrors))
	for name, params := range s.Mirrors {
		if name == mirrorOptionsKey {
			continue
		}
		stores[name] = params
	}
	return stores
}

func (s *Settings) GetMirrorSkipParked() bool {
	opts, ok := s.Mirrors[mirrorOptionsKey]
	if !ok {
		return false
	}
	raw, ok := opts["skip_parked"]
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Errorf("Invalid skip_parked (%q). Defaulting to false.", raw)
		return false
	}
	return v
}
