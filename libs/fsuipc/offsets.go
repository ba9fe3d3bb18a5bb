package fsuipc

// Offset описывает один стандартный IPC-оффсет: адрес в адресном
// пространстве FSUIPC, ширину блока в байтах и знаковость сырого значения.
type Offset struct {
	Name    string
	Address uint32
	Width   uint16
	Signed  bool
}

// Offsets — таблица читаемых оффсетов в порядке пакетного чтения.
// XPUIPC публикует те же адреса, что и FSUIPC, поэтому таблица общая
// для обоих вариантов моста.
var Offsets = []Offset{
	{Name: "latitude", Address: 0x0560, Width: 8, Signed: true},
	{Name: "longitude", Address: 0x0568, Width: 8, Signed: true},
	{Name: "altitude", Address: 0x0574, Width: 4, Signed: true},
	{Name: "heading", Address: 0x0580, Width: 4, Signed: false},
	{Name: "ias", Address: 0x02BC, Width: 4, Signed: false},
	{Name: "ground_speed", Address: 0x02B4, Width: 4, Signed: false},
	{Name: "vertical_speed", Address: 0x02C8, Width: 4, Signed: true},
	{Name: "on_ground", Address: 0x0366, Width: 2, Signed: false},
	{Name: "fuel_total_pct", Address: 0x0AF4, Width: 4, Signed: false},
}

// ByName возвращает оффсет по имени.
func ByName(name string) (Offset, bool) {
	for _, o := range Offsets {
		if o.Name == name {
			return o, true
		}
	}
	return Offset{}, false
}

// ByAddress возвращает оффсет по адресу.
func ByAddress(addr uint32) (Offset, bool) {
	for _, o := range Offsets {
		if o.Address == addr {
			return o, true
		}
	}
	return Offset{}, false
}
