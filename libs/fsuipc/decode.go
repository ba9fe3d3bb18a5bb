package fsuipc

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Коэффициенты пересчёта сырых значений оффсетов в физические единицы.
const (
	latScale     = 90.0 / 10001750.0
	lonScale     = 360.0 / 281474976710656.0 // 2^48
	hdgScale     = 360.0 / 4294967296.0      // 2^32
	metersToFeet = 3.28084
	msToKnots    = 1.94384
	fuelScale    = 128.0 * 65536.0
)

// DecodeError — ошибка разбора сырых блоков: блок отсутствует или имеет
// длину, не совпадающую с шириной оффсета.
type DecodeError struct {
	Offset string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("не удалось раскодировать оффсет %s: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode переводит блоки, снятые одним пакетным чтением, в нормализованную
// телеметрию. Ключи карты — имена оффсетов из Offsets; лишние блоки
// игнорируются, отсутствие любого обязательного — ошибка.
func Decode(blocks map[string][]byte) (*Telemetry, error) {
	latRaw, err := rawInt(blocks, "latitude")
	if err != nil {
		return nil, err
	}
	lonRaw, err := rawInt(blocks, "longitude")
	if err != nil {
		return nil, err
	}
	altRaw, err := rawInt(blocks, "altitude")
	if err != nil {
		return nil, err
	}
	hdgRaw, err := rawUint(blocks, "heading")
	if err != nil {
		return nil, err
	}
	iasRaw, err := rawUint(blocks, "ias")
	if err != nil {
		return nil, err
	}
	gsRaw, err := rawUint(blocks, "ground_speed")
	if err != nil {
		return nil, err
	}
	vsRaw, err := rawInt(blocks, "vertical_speed")
	if err != nil {
		return nil, err
	}
	ogRaw, err := rawUint(blocks, "on_ground")
	if err != nil {
		return nil, err
	}
	fuelRaw, err := rawUint(blocks, "fuel_total_pct")
	if err != nil {
		return nil, err
	}

	// После округления курс 359.96..359.99 схлопывается в 360.0,
	// поэтому результат ещё раз приводится к полуинтервалу [0, 360).
	heading := math.Mod(roundTo(float64(hdgRaw)*hdgScale, 1), 360)

	return &Telemetry{
		Latitude:      roundTo(float64(latRaw)*latScale, 6),
		Longitude:     roundTo(float64(lonRaw)*lonScale, 6),
		Altitude:      roundTo(float64(altRaw)/256.0*metersToFeet, 1),
		Heading:       heading,
		IAS:           roundTo(float64(iasRaw)/128.0, 1),
		GroundSpeed:   roundTo(float64(gsRaw)/65536.0*msToKnots, 1),
		VerticalSpeed: math.Round(float64(vsRaw) / 256.0),
		OnGround:      ogRaw != 0,
		FuelKg:        roundTo(float64(fuelRaw)/fuelScale*100.0, 1),
	}, nil
}

func rawBlock(blocks map[string][]byte, name string) ([]byte, error) {
	off, ok := ByName(name)
	if !ok {
		return nil, &DecodeError{Offset: name, Err: fmt.Errorf("неизвестный оффсет")}
	}
	b, ok := blocks[name]
	if !ok {
		return nil, &DecodeError{Offset: name, Err: fmt.Errorf("блок отсутствует")}
	}
	if len(b) != int(off.Width) {
		return nil, &DecodeError{Offset: name, Err: fmt.Errorf("неверная длина блока: %d вместо %d", len(b), off.Width)}
	}
	return b, nil
}

func rawUint(blocks map[string][]byte, name string) (uint64, error) {
	b, err := rawBlock(blocks, name)
	if err != nil {
		return 0, err
	}
	switch len(b) {
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	default:
		return binary.LittleEndian.Uint64(b), nil
	}
}

func rawInt(blocks map[string][]byte, name string) (int64, error) {
	b, err := rawBlock(blocks, name)
	if err != nil {
		return 0, err
	}
	switch len(b) {
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(b))), nil
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b))), nil
	default:
		return int64(binary.LittleEndian.Uint64(b)), nil
	}
}
