package types

import (
	"encoding/json"
	"time"

	"github.com/daniil11ru/skytrack-feeder/libs/fsuipc"
)

// TelemetryPayload — кадр телеметрии в том виде, в котором он уходит на
// сервер и в зеркала. Поля Telemetry разворачиваются в корень JSON-объекта.
type TelemetryPayload struct {
	fsuipc.Telemetry
	Callsign      string        `json:"callsign"`
	AircraftICAO  string        `json:"aircraft_icao"`
	DepartureICAO string        `json:"departure_icao"`
	ArrivalICAO   string        `json:"arrival_icao"`
	Simulator     SimulatorKind `json:"simulator"`
	FlightPhase   FlightPhase   `json:"flight_phase"`
	Timestamp     int64         `json:"timestamp"`
}

// NewTelemetryPayload собирает кадр из телеметрии, контекста рейса и фазы.
// Момент снятия передаётся явно и уходит в payload секундами эпохи.
func NewTelemetryPayload(tel *fsuipc.Telemetry, ctx FlightContext, phase FlightPhase, at time.Time) *TelemetryPayload {
	return &TelemetryPayload{
		Telemetry:     *tel,
		Callsign:      ctx.Callsign,
		AircraftICAO:  ctx.AircraftICAO,
		DepartureICAO: ctx.DepartureICAO,
		ArrivalICAO:   ctx.ArrivalICAO,
		Simulator:     ctx.Simulator,
		FlightPhase:   phase,
		Timestamp:     at.Unix(),
	}
}

func (p *TelemetryPayload) ToBytes() ([]byte, error) {
	return json.Marshal(p)
}
