package mirror

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
)

// AsyncRepository развязывает петлю сбора и зеркала: кадры складываются
// в буферизованный канал, раздают их фоновые воркеры. При полном буфере
// кадр пропускается, следующий его заменит.
type AsyncRepository struct {
	repo   *Repository
	ch     chan *types.TelemetryPayload
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewAsyncRepository(repo *Repository, buffer, workers int) *AsyncRepository {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	ar := &AsyncRepository{
		repo:   repo,
		ch:     make(chan *types.TelemetryPayload, buffer),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		ar.wg.Add(1)
		go ar.worker()
	}
	return ar
}

func (a *AsyncRepository) worker() {
	defer a.wg.Done()
	for {
		select {
		case p, ok := <-a.ch:
			if !ok {
				return
			}
			if err := a.repo.Save(p); err != nil {
				log.WithField("err", err).Error("Ошибка зеркалирования телеметрии")
			}
		case <-a.ctx.Done():
			return
		}
	}
}

// Save ставит кадр в очередь зеркалирования, не блокируя вызывающего.
func (a *AsyncRepository) Save(p *types.TelemetryPayload) error {
	select {
	case <-a.ctx.Done():
		return fmt.Errorf("асинхронный репозиторий был закрыт")
	default:
	}

	select {
	case a.ch <- p:
	default:
		log.Debug("Буфер зеркал полон, кадр пропущен")
	}
	return nil
}

func (a *AsyncRepository) Close() {
	a.cancel()
	close(a.ch)
	a.wg.Wait()
}
