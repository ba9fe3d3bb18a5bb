package redis

/*
Плагин зеркалирования в Redis.

Хранит последний кадр телеметрии в одном ключе с TTL. Значение ключа —
msgpack-конверт с секундой записи и JSON-кадром.

Раздел настроек, которые должны присутствовать в конфиге для подключения зеркала:

host = "localhost"
port = "6379"
password = ""
key = "skytrack:telemetry:latest"
ttl_seconds = 60
*/

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"gopkg.in/vmihailenco/msgpack.v2"
)

const defaultKey = "skytrack:telemetry:latest"

type envelope struct {
	SavedAt int64  `msgpack:"saved_at"`
	Frame   []byte `msgpack:"frame"`
}

type Connector struct {
	client *redis.Client
	config map[string]string
	key    string
	ttl    time.Duration
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	c.config = cfg
	c.key = c.config["key"]
	if c.key == "" {
		c.key = defaultKey
	}

	if v := c.config["ttl_seconds"]; v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("не удалось получить ttl_seconds: %v", err)
		}
		c.ttl = time.Duration(seconds) * time.Second
	}

	c.client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", c.config["host"], c.config["port"]),
		Password: c.config["password"],
	})

	if err := c.client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("не удалось подключиться к Redis: %v", err)
	}

	return nil
}

func (c *Connector) Save(msg interface{ ToBytes() ([]byte, error) }) error {
	if msg == nil {
		return fmt.Errorf("некорректная ссылка на пакет")
	}

	innerPkg, err := msg.ToBytes()
	if err != nil {
		return fmt.Errorf("ошибка сериализации кадра: %v", err)
	}

	value, err := msgpack.Marshal(envelope{SavedAt: time.Now().Unix(), Frame: innerPkg})
	if err != nil {
		return fmt.Errorf("ошибка упаковки конверта: %v", err)
	}

	if err := c.client.Set(context.Background(), c.key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("не удалось записать ключ: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.client.Close()
}
