package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
	"github.com/daniil11ru/skytrack-feeder/libs/fsuipc"
)

// Transport — один сеанс чтения телеметрии из моста памяти симулятора.
// Реализации молчаливы: журналирует ошибки вызывающая сторона.
type Transport interface {
	// Name возвращает имя варианта моста для журнала.
	Name() string
	// Connect выполняет ровно одну попытку установить сеанс.
	Connect() error
	// Read снимает один кадр телеметрии. Любая ошибка разрывает сеанс,
	// восстановить его может только следующий Connect.
	Read() (*fsuipc.Telemetry, error)
	// Disconnect закрывает сеанс. Повторные вызовы безопасны.
	Disconnect()
}

// ErrNotConnected возвращается из Read до установления сеанса.
var ErrNotConnected = errors.New("сеанс с мостом не установлен")

// ConnectError — неудачная попытка подключения к мосту.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("не удалось подключиться к мосту %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ForSimulator выбирает вариант моста по типу симулятора: X-Plane
// обслуживается XPUIPC-мостом, остальные — FSUIPC-мостом.
func ForSimulator(kind types.SimulatorKind, fsuipcAddr, xpuipcAddr string, timeout time.Duration) Transport {
	if kind.UsesXPUIPC() {
		return NewXPUIPC(xpuipcAddr, timeout)
	}
	return NewFSUIPC(fsuipcAddr, timeout)
}
