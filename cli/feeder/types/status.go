package types

type LoopState string

const (
	StateConnecting   LoopState = "CONNECTING"
	StateStreaming    LoopState = "STREAMING"
	StateShuttingDown LoopState = "SHUTTING_DOWN"
)

// FeederStatus — снимок состояния петли сбора для локального API и сводок.
// Фаза хранится строкой: до первого кадра она ещё не определена.
type FeederStatus struct {
	State         LoopState     `json:"state"`
	Simulator     SimulatorKind `json:"simulator"`
	Callsign      string        `json:"callsign"`
	Connected     bool          `json:"connected"`
	PostAttempts  uint64        `json:"post_attempts"`
	Delivered     uint64        `json:"delivered"`
	LastPostAt    int64         `json:"last_post_at"`
	FlightPhase   string        `json:"flight_phase"`
	UptimeSeconds int64         `json:"uptime_seconds"`
}
