package nats

/*
Плагин зеркалирования в NATS.

Раздел настроек, которые должны присутствовать в конфиге для подключения зеркала:

host = "localhost"
port = "4222"
user = ""
password = ""
subject = "skytrack.telemetry"
*/

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

const defaultSubject = "skytrack.telemetry"

type Connector struct {
	connection *nats.Conn
	config     map[string]string
	subject    string
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	c.config = cfg
	c.subject = c.config["subject"]
	if c.subject == "" {
		c.subject = defaultSubject
	}

	var opts []nats.Option
	if c.config["user"] != "" {
		opts = append(opts, nats.UserInfo(c.config["user"], c.config["password"]))
	}

	var err error
	c.connection, err = nats.Connect(fmt.Sprintf("nats://%s:%s", c.config["host"], c.config["port"]), opts...)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к NATS: %v", err)
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

	if err = c.connection.Publish(c.subject, innerPkg); err != nil {
		return fmt.Errorf("не удалось опубликовать сообщение: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	c.connection.Close()
	return nil
}
