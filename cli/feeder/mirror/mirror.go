package mirror

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/mirror/store/nats"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/mirror/store/rabbitmq"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/mirror/store/redis"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/mirror/store/tarantool_queue"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
)

var ErrNoMirrors = errors.New("mirror not found")
var ErrUnknownMirror = errors.New("mirror isn't supported yet")

type Store interface {
	Connector
	Saver
}

// Saver интерфейс зеркала телеметрии
type Saver interface {
	// Save передача кадра в зеркало
	Save(interface{ ToBytes() ([]byte, error) }) error
}

// Connector интерфейс подключения зеркала
type Connector interface {
	// Init установка соединения с зеркалом
	Init(map[string]string) error

	// Close закрытие соединения с зеркалом
	Close() error
}

// Repository набор зеркал, в которые уходит копия каждого кадра
type Repository struct {
	mirrors    []Saver
	stores     []Store
	SkipParked bool
}

// AddMirror добавляет зеркало для раздачи кадров
func (r *Repository) AddMirror(s Saver) {
	r.mirrors = append(r.mirrors, s)
}

// Save передаёт кадр во все подключённые зеркала
func (r *Repository) Save(p *types.TelemetryPayload) error {
	if r.SkipParked && p.FlightPhase == types.PhaseParked {
		log.Debug("Кадр на стоянке не зеркалируется")
		return nil
	}

	for _, m := range r.mirrors {
		if err := m.Save(p); err != nil {
			return err
		}
	}
	return nil
}

// LoadMirrors создаёт и подключает зеркала из секции конфига
func (r *Repository) LoadMirrors(mirrors map[string]map[string]string) error {
	if len(mirrors) == 0 {
		return ErrNoMirrors
	}

	var db Store
	for kind, params := range mirrors {
		switch kind {
		case "nats":
			db = &nats.Connector{}
		case "rabbitmq":
			db = &rabbitmq.Connector{}
		case "redis":
			db = &redis.Connector{}
		case "tarantool_queue":
			db = &tarantool_queue.Connector{}
		default:
			return ErrUnknownMirror
		}

		if err := db.Init(params); err != nil {
			return err
		}

		r.AddMirror(db)
		r.stores = append(r.stores, db)
	}
	return nil
}

// Close закрывает все подключённые зеркала
func (r *Repository) Close() {
	for _, s := range r.stores {
		if err := s.Close(); err != nil {
			log.WithField("err", err).Error("Ошибка закрытия зеркала")
		}
	}
}

// NewRepository создает пустой репозиторий зеркал
func NewRepository(skipParked bool) *Repository {
	return &Repository{SkipParked: skipParked}
}
