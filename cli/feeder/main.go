package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/api"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/config"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/delivery"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/domain"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/mirror"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/simbrief"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/transport"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
	"github.com/daniil11ru/skytrack-feeder/cli/feeder/util"
)

type identityFlags struct {
	simulator string
	callsign  string
	aircraft  string
	departure string
	arrival   string
}

func main() {
	configFilePath := ""
	fl := identityFlags{}
	flag.StringVar(&configFilePath, "c", "", "")
	flag.StringVar(&fl.simulator, "sim", "", "")
	flag.StringVar(&fl.callsign, "callsign", "", "")
	flag.StringVar(&fl.aircraft, "aircraft", "", "")
	flag.StringVar(&fl.departure, "dep", "", "")
	flag.StringVar(&fl.arrival, "arr", "", "")
	flag.Parse()

	cfg, err := getConfig(configFilePath)
	if err != nil {
		log.Fatalf("Не удалось получить конфиг: %v", err)
		return
	}

	configureLogging(cfg)

	flight, err := resolveFlightContext(cfg, fl, fetchSimBriefPlan(cfg))
	if err != nil {
		log.Fatalf("Не удалось собрать контекст рейса: %v", err)
		return
	}

	feed := &domain.FeedTelemetry{
		Transport:            transport.ForSimulator(flight.Simulator, cfg.FSUIPCAddress, cfg.XPUIPCAddress, cfg.GetBridgeTimeout()),
		Delivery:             delivery.New(cfg.APIURL, cfg.FeederToken, cfg.GetAPITimeout()),
		Flight:               flight,
		PollInterval:         cfg.GetPollInterval(),
		PostInterval:         cfg.GetPostInterval(),
		ConnectRetryInterval: cfg.GetConnectRetryInterval(),
		ReadRetryInterval:    cfg.GetReadRetryInterval(),
		SummarySchedule:      cfg.SummaryCron,
	}

	if stores := cfg.GetMirrorStores(); len(stores) > 0 {
		repository := mirror.NewRepository(cfg.GetMirrorSkipParked())
		if err := repository.LoadMirrors(stores); err != nil {
			log.Fatalf("Не удалось инициализировать зеркала: %v", err)
			return
		}
		defer repository.Close()

		async := mirror.NewAsyncRepository(repository, 64, 0)
		defer async.Close()
		feed.Mirror = async
	}

	if err := feed.Initialize(); err != nil {
		log.Fatalf("Не удалось инициализировать петлю сбора: %v", err)
		return
	}

	logBanner(cfg, flight)

	if cfg.StatusPort > 0 {
		controller := api.NewController(api.NewHandler(feed))
		go func(port int32) {
			log.Infof("Запуск API состояния на порту %d", port)
			if err := controller.Run(port); err != nil {
				log.Fatalf("Не удалось запустить API состояния: %v", err)
			}
		}(cfg.StatusPort)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	feed.Run(ctx)
}

func getConfig(configFilePath string) (config.Settings, error) {
	var c config.Settings
	var err error

	if configFilePath == "" {
		return c, &util.ErrorString{S: "не задан путь до конфига"}
	}

	c, err = config.New(configFilePath)
	if err != nil {
		return c, fmt.Errorf("ошибка парсинга конфига: %v", err)
	}

	return c, nil
}

func configureLogging(config config.Settings) {
	log.SetLevel(config.GetLogLevel())

	consoleFmt := &log.TextFormatter{ForceColors: true, FullTimestamp: false}
	log.SetFormatter(consoleFmt)
	log.SetOutput(os.Stdout)

	if config.LogFilePath != "" {
		logDir := filepath.Dir(config.LogFilePath)
		if _, err := os.Stat(logDir); os.IsNotExist(err) {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				log.Fatalf("Не получилось создать директорию для логов: %v", err)
			}
		}

		lumberjackLogger := &lumberjack.Logger{
			Filename:   config.LogFilePath,
			MaxSize:    100,
			MaxBackups: 366,
			MaxAge:     config.LogMaxAgeDays,
			Compress:   true,
		}

		fileFmt := &log.TextFormatter{DisableColors: true, FullTimestamp: true}
		hook := lfshook.NewHook(lfshook.WriterMap{
			log.PanicLevel: lumberjackLogger,
			log.FatalLevel: lumberjackLogger,
			log.ErrorLevel: lumberjackLogger,
			log.WarnLevel:  lumberjackLogger,
			log.InfoLevel:  lumberjackLogger,
			log.DebugLevel: lumberjackLogger,
			log.TraceLevel: lumberjackLogger,
		}, fileFmt)

		log.AddHook(hook)
	}
}

// fetchSimBriefPlan один раз запрашивает план, ошибка не мешает запуску.
func fetchSimBriefPlan(cfg config.Settings) *simbrief.Plan {
	if cfg.SimBriefUsername == "" {
		return nil
	}

	plan, err := simbrief.New("", 0).FetchPlan(cfg.SimBriefUsername)
	if err != nil {
		log.WithField("err", err).Warn("Не удалось получить план SimBrief")
		return nil
	}

	log.Infof("План SimBrief %s: %s, %s → %s", plan.OFPID, plan.Callsign, plan.DepartureICAO, plan.ArrivalICAO)
	return plan
}

// resolveFlightContext собирает контекст рейса: флаги поверх конфига,
// затем пустые поля закрывает план SimBrief, затем значения по умолчанию.
func resolveFlightContext(cfg config.Settings, fl identityFlags, plan *simbrief.Plan) (types.FlightContext, error) {
	flight := cfg.GetFlightContext()

	if fl.simulator != "" {
		kind, err := types.ParseSimulatorKind(fl.simulator)
		if err != nil {
			return flight, err
		}
		flight.Simulator = kind
	}
	if fl.callsign != "" {
		flight.Callsign = fl.callsign
	}
	if fl.aircraft != "" {
		flight.AircraftICAO = fl.aircraft
	}
	if fl.departure != "" {
		flight.DepartureICAO = fl.departure
	}
	if fl.arrival != "" {
		flight.ArrivalICAO = fl.arrival
	}

	if plan != nil {
		flight.FillFrom(plan.ToFlightContext())
	}

	flight.FillFrom(types.FlightContext{
		Callsign:      "JAL001",
		AircraftICAO:  "B789",
		DepartureICAO: "RJTT",
		ArrivalICAO:   "RJAA",
	})

	return flight, nil
}

func logBanner(cfg config.Settings, flight types.FlightContext) {
	log.Info("Запуск фидера SkyTRACK")
	log.Infof("  Симулятор : %s", flight.Simulator)
	log.Infof("  Позывной  : %s", flight.Callsign)
	log.Infof("  Борт      : %s", flight.AircraftICAO)
	log.Infof("  Маршрут   : %s → %s", flight.DepartureICAO, flight.ArrivalICAO)
	log.Infof("  API       : %s", cfg.APIURL)
	log.Infof("  Опрос     : %s", cfg.GetPollInterval())
	log.Infof("  Отправка  : %s", cfg.GetPostInterval())
}
