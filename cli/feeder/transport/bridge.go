package transport

import (
	"fmt"
	"net"
	"time"

	"github.com/daniil11ru/skytrack-feeder/libs/fsuipc"
)

const responseBufLen = 2048

// bridge — общая часть обоих вариантов моста: подключённый сокет,
// пакетный запрос всей таблицы оффсетов и обмен кадрами с дедлайном
// на каждую операцию.
type bridge struct {
	name     string
	network  string
	addr     string
	timeout  time.Duration
	datagram bool

	request  *fsuipc.ReadRequest
	reqFrame []byte
	conn     net.Conn
}

func (b *bridge) Name() string {
	return b.name
}

func (b *bridge) Connect() error {
	if b.conn != nil {
		return nil
	}

	frame, err := b.request.Encode()
	if err != nil {
		return &ConnectError{Addr: b.addr, Err: err}
	}

	conn, err := net.DialTimeout(b.network, b.addr, b.timeout)
	if err != nil {
		return &ConnectError{Addr: b.addr, Err: err}
	}

	b.reqFrame = frame
	b.conn = conn
	return nil
}

func (b *bridge) Read() (*fsuipc.Telemetry, error) {
	if b.conn == nil {
		return nil, ErrNotConnected
	}

	if b.timeout > 0 {
		_ = b.conn.SetDeadline(time.Now().Add(b.timeout))
	} else {
		_ = b.conn.SetDeadline(time.Time{})
	}

	if _, err := b.conn.Write(b.reqFrame); err != nil {
		b.Disconnect()
		return nil, fmt.Errorf("не удалось отправить запрос чтения: %w", err)
	}

	frame, err := b.recvFrame()
	if err != nil {
		b.Disconnect()
		return nil, fmt.Errorf("не удалось получить ответ моста: %w", err)
	}

	resp := &fsuipc.ReadResponse{}
	if err := resp.Decode(frame); err != nil {
		b.Disconnect()
		return nil, err
	}

	blocks, err := resp.BlocksByName(b.request)
	if err != nil {
		b.Disconnect()
		return nil, err
	}

	tel, err := fsuipc.Decode(blocks)
	if err != nil {
		b.Disconnect()
		return nil, err
	}
	return tel, nil
}

func (b *bridge) Disconnect() {
	if b.conn != nil {
		_ = b.conn.Close()
		b.conn = nil
	}
}

// recvFrame вычитывает один кадр ответа: из TCP-потока по длине в
// заголовке, из UDP-сокета — одной датаграммой.
func (b *bridge) recvFrame() ([]byte, error) {
	if !b.datagram {
		return fsuipc.ReadFrame(b.conn)
	}

	buf := make([]byte, responseBufLen)
	n, err := b.conn.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
