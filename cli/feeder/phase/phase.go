package phase

import (
	"math"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
	"github.com/daniil11ru/skytrack-feeder/libs/fsuipc"
)

// Classify определяет фазу полёта по одному кадру телеметрии. Проверки
// идут в фиксированном порядке, первое совпадение определяет результат,
// поэтому любой кадр получает ровно одну фазу:
//
//	на земле:  GS < 5 уз → PARKED; GS < 30 уз → TAXI; иначе TAKEOFF_ROLL
//	в воздухе: ALT < 10000 фт и VS > 300 фт/мин → CLIMB
//	           ALT ≥ 10000 фт и VS > 200 фт/мин → CLIMB
//	           |VS| < 200 фт/мин → CRUISE
//	           VS < -300 фт/мин и ALT > 3000 фт → DESCENT
//	           ALT ≤ 3000 фт и VS < -200 фт/мин → APPROACH
//	           иначе EN_ROUTE
func Classify(t *fsuipc.Telemetry) types.FlightPhase {
	if t.OnGround {
		switch {
		case t.GroundSpeed < 5:
			return types.PhaseParked
		case t.GroundSpeed < 30:
			return types.PhaseTaxi
		default:
			return types.PhaseTakeoffRoll
		}
	}

	switch {
	case t.Altitude < 10000 && t.VerticalSpeed > 300:
		return types.PhaseClimb
	case t.Altitude >= 10000 && t.VerticalSpeed > 200:
		return types.PhaseClimb
	case math.Abs(t.VerticalSpeed) < 200:
		return types.PhaseCruise
	case t.VerticalSpeed < -300 && t.Altitude > 3000:
		return types.PhaseDescent
	case t.Altitude <= 3000 && t.VerticalSpeed < -200:
		return types.PhaseApproach
	default:
		return types.PhaseEnRoute
	}
}
