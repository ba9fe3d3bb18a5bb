package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimulatorKind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SimulatorKind
		wantErr  bool
	}{
		{name: "Canonical MSFS", input: "MSFS", expected: SimulatorMSFS},
		{name: "Lowercase", input: "xplane", expected: SimulatorXPlane},
		{name: "Surrounding spaces", input: "  P3D ", expected: SimulatorP3D},
		{name: "Mixed case FSX", input: "Fsx", expected: SimulatorFSX},
		{name: "Unknown simulator", input: "DCS", wantErr: true},
		{name: "Empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSimulatorKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSimulatorKind_UsesXPUIPC(t *testing.T) {
	assert.True(t, SimulatorXPlane.UsesXPUIPC())
	assert.False(t, SimulatorMSFS.UsesXPUIPC())
	assert.False(t, SimulatorP3D.UsesXPUIPC())
	assert.False(t, SimulatorFSX.UsesXPUIPC())
}

func TestFlightContext_FillFrom(t *testing.T) {
	tests := []struct {
		name     string
		ctx      FlightContext
		plan     FlightContext
		expected FlightContext
	}{
		{
			name:     "Empty fields are filled",
			ctx:      FlightContext{},
			plan:     FlightContext{Callsign: "JAL123", AircraftICAO: "B789", DepartureICAO: "RJTT", ArrivalICAO: "RJAA"},
			expected: FlightContext{Callsign: "JAL123", AircraftICAO: "B789", DepartureICAO: "RJTT", ArrivalICAO: "RJAA"},
		},
		{
			name:     "Set fields win",
			ctx:      FlightContext{Callsign: "ANA001", AircraftICAO: "A359", DepartureICAO: "RJAA", ArrivalICAO: "RJTT"},
			plan:     FlightContext{Callsign: "JAL123", AircraftICAO: "B789", DepartureICAO: "RJTT", ArrivalICAO: "RJAA"},
			expected: FlightContext{Callsign: "ANA001", AircraftICAO: "A359", DepartureICAO: "RJAA", ArrivalICAO: "RJTT"},
		},
		{
			name:     "Placeholders count as empty",
			ctx:      FlightContext{Callsign: "UNKNOWN", AircraftICAO: "unkn", DepartureICAO: "RJTT", ArrivalICAO: "UNKN"},
			plan:     FlightContext{Callsign: "JAL123", AircraftICAO: "B789", DepartureICAO: "EGLL", ArrivalICAO: "RJAA"},
			expected: FlightContext{Callsign: "JAL123", AircraftICAO: "B789", DepartureICAO: "RJTT", ArrivalICAO: "RJAA"},
		},
		{
			name:     "Empty plan changes nothing",
			ctx:      FlightContext{Callsign: "UNKNOWN", AircraftICAO: "UNKN"},
			plan:     FlightContext{},
			expected: FlightContext{Callsign: "UNKNOWN", AircraftICAO: "UNKN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.ctx
			ctx.FillFrom(tt.plan)
			assert.Equal(t, tt.expected, ctx)
		})
	}
}
