package fsuipc

import "math"

// Telemetry — нормализованная телеметрия одного цикла чтения. Все значения
// переведены в физические единицы и округлены до рабочей точности.
type Telemetry struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Altitude      float64 `json:"altitude"`       // футы
	Heading       float64 `json:"heading"`        // градусы, [0, 360)
	IAS           float64 `json:"ias"`            // узлы
	GroundSpeed   float64 `json:"ground_speed"`   // узлы
	VerticalSpeed float64 `json:"vertical_speed"` // футы/мин
	OnGround      bool    `json:"on_ground"`
	// FIXME: в поле лежит процент топлива, умноженный на 100, а не килограммы;
	// для пересчёта в массу нужна ёмкость баков конкретного борта.
	FuelKg float64 `json:"fuel_kg"`
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
