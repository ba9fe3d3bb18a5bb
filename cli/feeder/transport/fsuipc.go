package transport

/*
Вариант моста для FSUIPC (MSFS, P3D, FSX).

Кадры идут сплошным TCP-потоком, адрес по умолчанию 127.0.0.1:2048.
*/

import (
	"time"

	"github.com/daniil11ru/skytrack-feeder/libs/fsuipc"
)

const DefaultFSUIPCAddr = "127.0.0.1:2048"

func NewFSUIPC(addr string, timeout time.Duration) Transport {
	if addr == "" {
		addr = DefaultFSUIPCAddr
	}
	return &bridge{
		name:    "FSUIPC",
		network: "tcp",
		addr:    addr,
		timeout: timeout,
		request: fsuipc.RequestAll(),
	}
}
