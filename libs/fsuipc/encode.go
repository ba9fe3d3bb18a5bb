package fsuipc

import (
	"encoding/binary"
	"math"
)

// Encode собирает из телеметрии сырые блоки оффсетов, обращая формулы
// Decode. Используется генератором sim-gen и проверками кольцевого
// преобразования.
func Encode(t *Telemetry) map[string][]byte {
	blocks := make(map[string][]byte, len(Offsets))

	putUint := func(name string, v uint64) {
		off, _ := ByName(name)
		b := make([]byte, off.Width)
		switch off.Width {
		case 2:
			binary.LittleEndian.PutUint16(b, uint16(v))
		case 4:
			binary.LittleEndian.PutUint32(b, uint32(v))
		default:
			binary.LittleEndian.PutUint64(b, v)
		}
		blocks[name] = b
	}
	putInt := func(name string, v int64) {
		putUint(name, uint64(v))
	}

	putInt("latitude", int64(math.Round(t.Latitude/latScale)))
	putInt("longitude", int64(math.Round(t.Longitude/lonScale)))
	putInt("altitude", int64(math.Round(t.Altitude/metersToFeet*256.0)))
	putUint("heading", uint64(math.Round(t.Heading/hdgScale)))
	putUint("ias", uint64(math.Round(t.IAS*128.0)))
	putUint("ground_speed", uint64(math.Round(t.GroundSpeed/msToKnots*65536.0)))
	putInt("vertical_speed", int64(math.Round(t.VerticalSpeed*256.0)))
	if t.OnGround {
		putUint("on_ground", 1)
	} else {
		putUint("on_ground", 0)
	}
	putUint("fuel_total_pct", uint64(math.Round(t.FuelKg/100.0*fuelScale)))

	return blocks
}
