package types

import (
	"encoding/json"
	"fmt"
)

type FlightPhase string

const (
	PhaseParked      FlightPhase = "PARKED"
	PhaseTaxi        FlightPhase = "TAXI"
	PhaseTakeoffRoll FlightPhase = "TAKEOFF_ROLL"
	PhaseClimb       FlightPhase = "CLIMB"
	PhaseCruise      FlightPhase = "CRUISE"
	PhaseDescent     FlightPhase = "DESCENT"
	PhaseApproach    FlightPhase = "APPROACH"
	PhaseEnRoute     FlightPhase = "EN_ROUTE"
)

var phaseSet = map[FlightPhase]struct{}{
	PhaseParked:      {},
	PhaseTaxi:        {},
	PhaseTakeoffRoll: {},
	PhaseClimb:       {},
	PhaseCruise:      {},
	PhaseDescent:     {},
	PhaseApproach:    {},
	PhaseEnRoute:     {},
}

func (fp FlightPhase) IsValid() bool {
	_, ok := phaseSet[fp]
	return ok
}

func (fp *FlightPhase) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := FlightPhase(s)
	if !v.IsValid() {
		return fmt.Errorf("недопустимый flight_phase: %q", s)
	}
	*fp = v
	return nil
}

func (fp FlightPhase) MarshalJSON() ([]byte, error) {
	if !fp.IsValid() {
		return nil, fmt.Errorf("недопустимый flight_phase: %q", string(fp))
	}
	return json.Marshal(string(fp))
}
