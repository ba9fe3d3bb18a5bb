package rabbitmq

/*
Плагин зеркалирования в RabbitMQ.

Раздел настроек, которые должны присутствовать в конфиге для подключения зеркала:

host = "localhost"
port = "5672"
user = "guest"
password = "guest"
exchange = "skytrack"
*/

import (
	"fmt"

	"github.com/streadway/amqp"
)

const defaultExchange = "skytrack"

type Connector struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	config     map[string]string
	exchange   string
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	c.config = cfg
	c.exchange = c.config["exchange"]
	if c.exchange == "" {
		c.exchange = defaultExchange
	}

	var err error
	c.connection, err = amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.config["user"], c.config["password"], c.config["host"], c.config["port"]))
	if err != nil {
		return fmt.Errorf("не удалось подключиться к RabbitMQ: %v", err)
	}

	c.channel, err = c.connection.Channel()
	if err != nil {
		return fmt.Errorf("не удалось открыть канал: %v", err)
	}

	if err = c.channel.ExchangeDeclare(c.exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("не удалось объявить exchange: %v", err)
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

	err = c.channel.Publish(c.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        innerPkg,
	})
	if err != nil {
		return fmt.Errorf("не удалось опубликовать сообщение: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	return c.connection.Close()
}
