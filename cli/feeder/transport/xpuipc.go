package transport

/*
Вариант моста для XPUIPC (X-Plane).

Каждый кадр занимает одну UDP-датаграмму, адрес по умолчанию
127.0.0.1:49000.
*/

import (
	"time"

	"github.com/daniil11ru/skytrack-feeder/libs/fsuipc"
)

const DefaultXPUIPCAddr = "127.0.0.1:49000"

func NewXPUIPC(addr string, timeout time.Duration) Transport {
	if addr == "" {
		addr = DefaultXPUIPCAddr
	}
	return &bridge{
		name:     "XPUIPC",
		network:  "udp",
		addr:     addr,
		timeout:  timeout,
		datagram: true,
		request:  fsuipc.RequestAll(),
	}
}
