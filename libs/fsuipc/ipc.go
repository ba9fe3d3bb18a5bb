package fsuipc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Формат кадра моста памяти, общий для FSUIPC- и XPUIPC-вариантов:
//
//	заголовок: 'U' 'I' 'P' | версия | тип кадра | длина тела (uint16 LE)
//	тело запроса: количество | {адрес uint32 LE, ширина uint16 LE} × количество
//	тело ответа:  статус | количество | {ширина uint16 LE, данные} × количество
//
// Блоки в ответе следуют в порядке запроса. По TCP кадры идут сплошным
// потоком, по UDP каждый кадр занимает отдельную датаграмму.
const (
	FrameHeaderLen = 7

	FrameReadRequest  = 1
	FrameReadResponse = 2

	StatusOK         = 0
	StatusBadRequest = 1

	ProtocolVersion = 1

	maxReadEntries = 64
)

var frameMagic = [3]byte{'U', 'I', 'P'}

// ReadEntry — один запрашиваемый блок памяти.
type ReadEntry struct {
	Address uint32
	Width   uint16
}

// ReadRequest — запрос пакетного чтения набора оффсетов.
type ReadRequest struct {
	Entries []ReadEntry
}

// RequestAll возвращает запрос на чтение всей таблицы Offsets.
func RequestAll() *ReadRequest {
	entries := make([]ReadEntry, 0, len(Offsets))
	for _, o := range Offsets {
		entries = append(entries, ReadEntry{Address: o.Address, Width: o.Width})
	}
	return &ReadRequest{Entries: entries}
}

// Encode упаковывает запрос в кадр.
func (r *ReadRequest) Encode() ([]byte, error) {
	if len(r.Entries) == 0 {
		return nil, fmt.Errorf("пустой запрос чтения")
	}
	if len(r.Entries) > maxReadEntries {
		return nil, fmt.Errorf("слишком много оффсетов в запросе: %d", len(r.Entries))
	}
	body := new(bytes.Buffer)
	body.WriteByte(uint8(len(r.Entries)))
	for _, e := range r.Entries {
		if err := binary.Write(body, binary.LittleEndian, e.Address); err != nil {
			return nil, err
		}
		if err := binary.Write(body, binary.LittleEndian, e.Width); err != nil {
			return nil, err
		}
	}
	return wrapFrame(FrameReadRequest, body.Bytes())
}

// Decode разбирает кадр запроса.
func (r *ReadRequest) Decode(frame []byte) error {
	kind, body, err := splitFrame(frame)
	if err != nil {
		return err
	}
	if kind != FrameReadRequest {
		return fmt.Errorf("кадр не является запросом чтения: тип %d", kind)
	}
	buf := bytes.NewReader(body)
	count, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("не удалось получить количество оффсетов: %w", err)
	}
	entries := make([]ReadEntry, 0, count)
	for i := 0; i < int(count); i++ {
		var e ReadEntry
		if err := binary.Read(buf, binary.LittleEndian, &e.Address); err != nil {
			return fmt.Errorf("не удалось получить адрес оффсета: %w", err)
		}
		if err := binary.Read(buf, binary.LittleEndian, &e.Width); err != nil {
			return fmt.Errorf("не удалось получить ширину блока: %w", err)
		}
		entries = append(entries, e)
	}
	r.Entries = entries
	return nil
}

// ReadResponse — ответ на пакетное чтение. Blocks идут в порядке
// соответствующего запроса.
type ReadResponse struct {
	Status uint8
	Blocks [][]byte
}

// Encode упаковывает ответ в кадр.
func (r *ReadResponse) Encode() ([]byte, error) {
	if len(r.Blocks) > maxReadEntries {
		return nil, fmt.Errorf("слишком много блоков в ответе: %d", len(r.Blocks))
	}
	body := new(bytes.Buffer)
	body.WriteByte(r.Status)
	body.WriteByte(uint8(len(r.Blocks)))
	for _, b := range r.Blocks {
		if err := binary.Write(body, binary.LittleEndian, uint16(len(b))); err != nil {
			return nil, err
		}
		body.Write(b)
	}
	return wrapFrame(FrameReadResponse, body.Bytes())
}

// Decode разбирает кадр ответа.
func (r *ReadResponse) Decode(frame []byte) error {
	kind, body, err := splitFrame(frame)
	if err != nil {
		return err
	}
	if kind != FrameReadResponse {
		return fmt.Errorf("кадр не является ответом на чтение: тип %d", kind)
	}
	buf := bytes.NewReader(body)
	status, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("не удалось получить статус ответа: %w", err)
	}
	count, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("не удалось получить количество блоков: %w", err)
	}
	blocks := make([][]byte, 0, count)
	for i := 0; i < int(count); i++ {
		var width uint16
		if err := binary.Read(buf, binary.LittleEndian, &width); err != nil {
			return fmt.Errorf("не удалось получить ширину блока: %w", err)
		}
		b := make([]byte, width)
		if _, err := io.ReadFull(buf, b); err != nil {
			return fmt.Errorf("не удалось получить данные блока: %w", err)
		}
		blocks = append(blocks, b)
	}
	r.Status = status
	r.Blocks = blocks
	return nil
}

// BlocksByName раскладывает блоки ответа по именам оффсетов запроса.
// Количество блоков должно совпадать с количеством записей запроса.
func (r *ReadResponse) BlocksByName(req *ReadRequest) (map[string][]byte, error) {
	if r.Status != StatusOK {
		return nil, fmt.Errorf("мост вернул статус %d", r.Status)
	}
	if len(r.Blocks) != len(req.Entries) {
		return nil, fmt.Errorf("количество блоков не совпадает с запросом: %d вместо %d", len(r.Blocks), len(req.Entries))
	}
	named := make(map[string][]byte, len(r.Blocks))
	for i, e := range req.Entries {
		off, ok := ByAddress(e.Address)
		if !ok {
			return nil, fmt.Errorf("в ответе блок с неизвестным адресом 0x%04X", e.Address)
		}
		named[off.Name] = r.Blocks[i]
	}
	return named, nil
}

func wrapFrame(kind uint8, body []byte) ([]byte, error) {
	if len(body) > 0xFFFF {
		return nil, fmt.Errorf("тело кадра превышает 65535 байт: %d", len(body))
	}
	buf := new(bytes.Buffer)
	buf.Write(frameMagic[:])
	buf.WriteByte(ProtocolVersion)
	buf.WriteByte(kind)
	if err := binary.Write(buf, binary.LittleEndian, uint16(len(body))); err != nil {
		return nil, err
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

func splitFrame(frame []byte) (uint8, []byte, error) {
	if len(frame) < FrameHeaderLen {
		return 0, nil, fmt.Errorf("кадр короче заголовка: %d байт", len(frame))
	}
	if !bytes.Equal(frame[:3], frameMagic[:]) {
		return 0, nil, fmt.Errorf("кадр не соответствует формату моста")
	}
	if frame[3] != ProtocolVersion {
		return 0, nil, fmt.Errorf("неподдерживаемая версия протокола: %d", frame[3])
	}
	bodyLen := int(binary.LittleEndian.Uint16(frame[5:7]))
	if bodyLen != len(frame)-FrameHeaderLen {
		return 0, nil, fmt.Errorf("длина тела не совпадает с заголовком: %d вместо %d", len(frame)-FrameHeaderLen, bodyLen)
	}
	return frame[4], frame[FrameHeaderLen:], nil
}

// ReadFrame вычитывает из потока один кадр целиком: сначала заголовок,
// затем тело указанной в нём длины.
func ReadFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, FrameHeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if !bytes.Equal(header[:3], frameMagic[:]) {
		return nil, fmt.Errorf("кадр не соответствует формату моста")
	}
	bodyLen := int(binary.LittleEndian.Uint16(header[5:7]))
	frame := make([]byte, FrameHeaderLen+bodyLen)
	copy(frame, header)
	if _, err := io.ReadFull(r, frame[FrameHeaderLen:]); err != nil {
		return nil, err
	}
	return frame, nil
}
