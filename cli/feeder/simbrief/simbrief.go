package simbrief

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/daniil11ru/skytrack-feeder/cli/feeder/types"
)

// DefaultBaseURL — публичный fetcher SimBrief.
const DefaultBaseURL = "https://www.simbrief.com/api/xml.fetcher.php"

const defaultTimeout = 10 * time.Second

// Plan — последний OFP пилота в объёме, который нужен фидеру.
type Plan struct {
	Username      string
	Callsign      string
	AircraftICAO  string
	DepartureICAO string
	ArrivalICAO   string
	Route         string
	OFPID         string
	CreatedAt     string
}

// ToFlightContext переводит план в контекст рейса для дозаполнения
// полей, которые оператор оставил пустыми.
func (p *Plan) ToFlightContext() types.FlightContext {
	return types.FlightContext{
		Callsign:      p.Callsign,
		AircraftICAO:  p.AircraftICAO,
		DepartureICAO: p.DepartureICAO,
		ArrivalICAO:   p.ArrivalICAO,
	}
}

// Ответ SimBrief велик, разбираем только нужные поля.
type response struct {
	General struct {
		Route   string `json:"route"`
		OFPID   string `json:"ofp_id"`
		Created string `json:"created"`
	} `json:"general"`
	Aircraft struct {
		ICAOCode string `json:"icao_code"`
	} `json:"aircraft"`
	Origin struct {
		ICAOCode string `json:"icao_code"`
	} `json:"origin"`
	Destination struct {
		ICAOCode string `json:"icao_code"`
	} `json:"destination"`
	ATC struct {
		Callsign string `json:"callsign"`
	} `json:"atc"`
}

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchPlan запрашивает последний OFP по имени пользователя SimBrief.
func (c *Client) FetchPlan(username string) (*Plan, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("не задано имя пользователя SimBrief")
	}

	reqURL := fmt.Sprintf("%s?json=1&username=%s", c.baseURL, url.QueryEscape(username))
	resp, err := c.client.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("не удалось выполнить запрос к SimBrief: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SimBrief вернул статус %s", resp.Status)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("не удалось разобрать ответ SimBrief: %w", err)
	}

	return &Plan{
		Username:      username,
		Callsign:      strings.TrimSpace(body.ATC.Callsign),
		AircraftICAO:  normICAO(body.Aircraft.ICAOCode),
		DepartureICAO: normICAO(body.Origin.ICAOCode),
		ArrivalICAO:   normICAO(body.Destination.ICAOCode),
		Route:         strings.TrimSpace(body.General.Route),
		OFPID:         strings.TrimSpace(body.General.OFPID),
		CreatedAt:     strings.TrimSpace(body.General.Created),
	}, nil
}

func normICAO(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
