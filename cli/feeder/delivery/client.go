package delivery

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
)

// TokenHeader — заголовок с общим секретом фидера.
const TokenHeader = "X-Feeder-Token"

const defaultTimeout = 2 * time.Second

// Client отправляет кадры телеметрии на сервер SkyTRACK. Любая неудача
// журналируется и поглощается: петля сбора не останавливается из-за
// недоступного сервера и не повторяет отправку, следующий кадр всё
// равно заменит потерянный.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Post отправляет один кадр. Возвращает true только при ответе 200 OK.
func (c *Client) Post(payload *types.TelemetryPayload) bool {
	body, err := payload.ToBytes()
	if err != nil {
		log.WithField("err", err).Warn("Не удалось сериализовать кадр телеметрии")
		return false
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/telemetry", bytes.NewReader(body))
	if err != nil {
		log.WithField("err", err).Warn("Не удалось сформировать запрос к серверу")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(TokenHeader, c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		log.WithField("err", err).Warn("Не удалось отправить телеметрию")
		return false
	}
	defer resp.Body.Close()

	// дочитываем тело, чтобы соединение вернулось в пул
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Warnf("Сервер отклонил телеметрию: %s", resp.Status)
		return false
	}
	return true
}
