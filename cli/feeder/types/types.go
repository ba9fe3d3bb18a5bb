package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

type SimulatorKind string

const (
	SimulatorMSFS   SimulatorKind = "MSFS"
	SimulatorP3D    SimulatorKind = "P3D"
	SimulatorFSX    SimulatorKind = "FSX"
	SimulatorXPlane SimulatorKind = "XPLANE"
)

var simulatorSet = map[SimulatorKind]struct{}{
	SimulatorMSFS:   {},
	SimulatorP3D:    {},
	SimulatorFSX:    {},
	SimulatorXPlane: {},
}

func (sk SimulatorKind) IsValid() bool {
	_, ok := simulatorSet[sk]
	return ok
}

// UsesXPUIPC сообщает, каким вариантом моста памяти пользуется симулятор:
// X-Plane отвечает через XPUIPC по UDP, остальные — через FSUIPC по TCP.
func (sk SimulatorKind) UsesXPUIPC() bool {
	return sk == SimulatorXPlane
}

func ParseSimulatorKind(s string) (SimulatorKind, error) {
	v := SimulatorKind(strings.ToUpper(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("недопустимый simulator: %q", s)
	}
	return v, nil
}

func (sk *SimulatorKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseSimulatorKind(s)
	if err != nil {
		return err
	}
	*sk = v
	return nil
}

func (sk SimulatorKind) MarshalJSON() ([]byte, error) {
	if !sk.IsValid() {
		return nil, fmt.Errorf("недопустимый simulator: %q", string(sk))
	}
	return json.Marshal(string(sk))
}

// Значения-заглушки, которыми оператор помечает незаполненные поля рейса.
const (
	UnknownCallsign = "UNKNOWN"
	UnknownICAO     = "UNKN"
)

// FlightContext — неизменяемые атрибуты рейса, задаваемые при запуске.
type FlightContext struct {
	Callsign      string
	AircraftICAO  string
	DepartureICAO string
	ArrivalICAO   string
	Simulator     SimulatorKind
}

// FillFrom заполняет пустые поля и поля-заглушки значениями из other.
// Уже заданные значения не перезаписываются.
func (fc *FlightContext) FillFrom(other FlightContext) {
	if isBlank(fc.Callsign, UnknownCallsign) && other.Callsign != "" {
		fc.Callsign = other.Callsign
	}
	if isBlank(fc.AircraftICAO, UnknownICAO) && other.AircraftICAO != "" {
		fc.AircraftICAO = other.AircraftICAO
	}
	if isBlank(fc.DepartureICAO, UnknownICAO) && other.DepartureICAO != "" {
		fc.DepartureICAO = other.DepartureICAO
	}
	if isBlank(fc.ArrivalICAO, UnknownICAO) && other.ArrivalICAO != "" {
		fc.ArrivalICAO = other.ArrivalICAO
	}
}

func isBlank(v, placeholder string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, placeholder)
}
