package domain

import (
	"context"
	"fmt"
	"sync"
	"time"

	cron "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/phase"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/transport"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
	"github.com/daniil11ru/skytrack-feeder/libs/fsuipc"
)

var now = time.Now // For mocking time.Now() in tests

const statsEvery = 20

const defaultSummarySchedule = "@every 1h"

// Poster доставляет кадр на сервер, возвращая факт доставки.
type Poster interface {
	Post(*types.TelemetryPayload) bool
}

// MirrorSaver раздаёт кадр необязательным зеркалам.
type MirrorSaver interface {
	Save(*types.TelemetryPayload) error
}

// FeedTelemetry — петля сбора: читает мост, классифицирует фазу и
// отправляет кадры на сервер. Чтение, классификация и отправка идут в
// одной горутине; темп чтения задаёт PollInterval, темп отправки —
// PostInterval.
type FeedTelemetry struct {
	Transport transport.Transport
	Delivery  Poster
	Mirror    MirrorSaver
	Flight    types.FlightContext

	PollInterval         time.Duration
	PostInterval         time.Duration
	ConnectRetryInterval time.Duration
	ReadRetryInterval    time.Duration
	SummarySchedule      string

	mu          sync.Mutex
	state       types.LoopState
	connected   bool
	lastPhase   types.FlightPhase
	lastPayload *types.TelemetryPayload
	lastPostAt  time.Time
	postCount   uint64
	delivered   uint64
	startedAt   time.Time

	cronScheduler *cron.Cron
}

// Initialize фиксирует момент запуска и планирует периодическую сводку
// сеанса.
func (f *FeedTelemetry) Initialize() error {
	f.mu.Lock()
	f.startedAt = now()
	f.state = types.StateConnecting
	f.mu.Unlock()

	schedule := f.SummarySchedule
	if schedule == "" {
		schedule = defaultSummarySchedule
	}

	f.cronScheduler = cron.New()
	_, err := f.cronScheduler.AddFunc(schedule, func() {
		s := f.Snapshot()
		logrus.Infof("Сводка сеанса: аптайм %s, попыток отправки %d, доставлено %d",
			time.Duration(s.UptimeSeconds)*time.Second, s.PostAttempts, s.Delivered)
	})
	if err != nil {
		return fmt.Errorf("ошибка при настройке cron-задачи: %w", err)
	}

	f.cronScheduler.Start()
	logrus.Infof("Запланирована сводка сеанса по расписанию %q", schedule)

	return nil
}

// Run ведёт петлю до отмены контекста: подключение с повторами, затем
// поток чтения. Возврат происходит только после полной остановки.
func (f *FeedTelemetry) Run(ctx context.Context) {
	f.setState(types.StateConnecting)
	logrus.Infof("Подключение к мосту %s", f.Transport.Name())

	if f.connectLoop(ctx) {
		f.setState(types.StateStreaming)
		f.stream(ctx)
	}

	f.shutdown()
}

// connectLoop пытается установить сеанс, пока это не удастся или пока
// не отменят контекст.
func (f *FeedTelemetry) connectLoop(ctx context.Context) bool {
	for {
		if ctx.Err() != nil {
			return false
		}

		err := f.Transport.Connect()
		if err == nil {
			f.setConnected(true)
			logrus.Infof("Установлено соединение с мостом %s", f.Transport.Name())
			return true
		}

		logrus.WithField("err", err).Errorf("Мост %s недоступен, повтор через %s",
			f.Transport.Name(), f.ConnectRetryInterval)
		if !f.pause(ctx, f.ConnectRetryInterval) {
			return false
		}
	}
}

func (f *FeedTelemetry) stream(ctx context.Context) {
	for ctx.Err() == nil {
		tel, err := f.Transport.Read()
		if err != nil {
			f.setConnected(false)
			logrus.WithField("err", err).Warn("Сбой чтения телеметрии")
			if !f.pause(ctx, f.ReadRetryInterval) {
				return
			}

			// одна попытка восстановления за цикл, петля остаётся в потоке
			if err := f.Transport.Connect(); err != nil {
				logrus.WithField("err", err).Warn("Повторное подключение не удалось")
			} else {
				f.setConnected(true)
				logrus.Info("Соединение с мостом восстановлено")
			}
			continue
		}

		f.handleFrame(tel)

		if !f.pause(ctx, f.PollInterval) {
			return
		}
	}
}

func (f *FeedTelemetry) handleFrame(tel *fsuipc.Telemetry) {
	ph := phase.Classify(tel)

	f.mu.Lock()
	f.lastPhase = ph
	due := now().Sub(f.lastPostAt) >= f.PostInterval
	f.mu.Unlock()
	if !due {
		return
	}

	payload := types.NewTelemetryPayload(tel, f.Flight, ph, now())
	ok := f.Delivery.Post(payload)

	f.mu.Lock()
	// момент отправки сдвигается независимо от исхода, чтобы недоступный
	// сервер не превращал каждый следующий тик в попытку отправки
	f.lastPostAt = now()
	f.postCount++
	if ok {
		f.delivered++
	}
	count := f.postCount
	f.lastPayload = payload
	f.mu.Unlock()

	if f.Mirror != nil {
		if err := f.Mirror.Save(payload); err != nil {
			logrus.WithField("err", err).Warn("Кадр не был передан зеркалам")
		}
	}

	if count%statsEvery == 0 {
		f.logStats(tel, ok)
	}
}

func (f *FeedTelemetry) logStats(tel *fsuipc.Telemetry, delivered bool) {
	mark := "✓"
	if !delivered {
		mark = "✗"
	}
	logrus.Infof("ALT %.0f фт, IAS %.0f уз, HDG %05.1f, GS %.0f уз, VS %+.0f фт/мин | отправка %s",
		tel.Altitude, tel.IAS, tel.Heading, tel.GroundSpeed, tel.VerticalSpeed, mark)
}

func (f *FeedTelemetry) shutdown() {
	f.setState(types.StateShuttingDown)
	logrus.Info("Остановка петли сбора")

	f.Transport.Disconnect()
	f.setConnected(false)

	if f.cronScheduler != nil {
		f.cronScheduler.Stop()
	}

	f.mu.Lock()
	attempts, delivered := f.postCount, f.delivered
	f.mu.Unlock()
	logrus.Infof("Петля сбора остановлена: попыток отправки %d, доставлено %d", attempts, delivered)
}

// Snapshot возвращает согласованный снимок состояния петли.
func (f *FeedTelemetry) Snapshot() types.FeederStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	var lastPost int64
	if !f.lastPostAt.IsZero() {
		lastPost = f.lastPostAt.Unix()
	}
	var uptime int64
	if !f.startedAt.IsZero() {
		uptime = int64(now().Sub(f.startedAt).Seconds())
	}

	return types.FeederStatus{
		State:         f.state,
		Simulator:     f.Flight.Simulator,
		Callsign:      f.Flight.Callsign,
		Connected:     f.connected,
		PostAttempts:  f.postCount,
		Delivered:     f.delivered,
		LastPostAt:    lastPost,
		FlightPhase:   string(f.lastPhase),
		UptimeSeconds: uptime,
	}
}

// LastPayload возвращает последний отправлявшийся кадр или nil.
func (f *FeedTelemetry) LastPayload() *types.TelemetryPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPayload
}

func (f *FeedTelemetry) setState(s types.LoopState) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func (f *FeedTelemetry) setConnected(v bool) {
	f.mu.Lock()
	f.connected = v
	f.mu.Unlock()
}

// pause ждёт d или отмену контекста; false означает остановку петли.
func (f *FeedTelemetry) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
