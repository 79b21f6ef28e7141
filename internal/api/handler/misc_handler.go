package handler

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var weatherConditions = []string{"sunny", "cloudy", "rainy", "partly cloudy", "clear"}

// DefaultQuoteURL is the public API behind /misc/random-quote.
const DefaultQuoteURL = "https://api.quotable.io/random"

type quoteResponse struct {
	Quote  string   `json:"quote"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

// Served when the quote API answers with a non-200 status.
var unavailableQuote = quoteResponse{
	Quote:  "The only way to do great work is to love what you do.",
	Author: "Steve Jobs",
	Tags:   []string{"motivational"},
}

// Served when the quote API cannot be reached or returns garbage.
var failedQuote = quoteResponse{
	Quote:  "Success is not final, failure is not fatal: it is the courage to continue that counts.",
	Author: "Winston Churchill",
	Tags:   []string{"inspirational"},
}

// MiscHandler serves the demo utility endpoints under /api/v1/misc.
type MiscHandler struct {
	now func() time.Time
	// delayUnit scales the slow endpoint; one second outside tests.
	delayUnit time.Duration

	quoteURL   string
	httpClient *http.Client
}

func NewMiscHandler() *MiscHandler {
	return &MiscHandler{
		now:        time.Now,
		delayUnit:  time.Second,
		quoteURL:   DefaultQuoteURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Health handles GET /misc/health.
func (h *MiscHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
		"version":   Version,
	})
}

// Ping handles GET /misc/ping.
func (h *MiscHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "pong"})
}

// Time handles GET /misc/time.
func (h *MiscHandler) Time(c echo.Context) error {
	now := h.now().UTC()
	return c.JSON(http.StatusOK, map[string]any{
		"utc":            now.Format(time.RFC3339Nano),
		"unix_timestamp": now.Unix(),
		"formatted":      now.Format("2006-01-02 15:04:05") + " UTC",
		"timezone":       "UTC",
	})
}

// Echo handles GET /misc/echo?message=.
func (h *MiscHandler) Echo(c echo.Context) error {
	msg := c.QueryParam("message")
	if msg == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "message is required")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"original_message": msg,
		"echoed_at":        h.now().UTC().Format(time.RFC3339Nano),
		"length":           len([]rune(msg)),
	})
}

// EchoPost handles POST /misc/echo with an arbitrary JSON object.
func (h *MiscHandler) EchoPost(c echo.Context) error {
	var data map[string]any
	if err := c.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Received data: %v", data),
		Success: true,
	})
}

// Weather handles GET /misc/weather?city= with mock data.
func (h *MiscHandler) Weather(c echo.Context) error {
	city := c.QueryParam("city")
	if city == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "city is required")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"city":        city,
		"temperature": round1(-10 + rand.Float64()*45),
		"condition":   weatherConditions[rand.Intn(len(weatherConditions))],
		"humidity":    30 + rand.Intn(61),
		"wind_speed":  round1(rand.Float64() * 25),
		"timestamp":   h.now().UTC().Format(time.RFC3339Nano),
		"note":        "This is mock data for demo purposes",
	})
}

// Slow handles GET /misc/slow?delay=1..30 and returns early if the client goes away.
func (h *MiscHandler) Slow(c echo.Context) error {
	delay := 5
	if err := echo.QueryParamsBinder(c).Int("delay", &delay).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "delay must be an integer")
	}
	if delay < 1 || delay > 30 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "delay must be between 1 and 30")
	}

	timer := time.NewTimer(time.Duration(delay) * h.delayUnit)
	defer timer.Stop()

	select {
	case <-c.Request().Context().Done():
		return c.Request().Context().Err()
	case <-timer.C:
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":      fmt.Sprintf("Waited for %d seconds", delay),
		"completed_at": h.now().UTC().Format(time.RFC3339Nano),
	})
}

// Error handles GET /misc/error?status_code=400..599 by failing on purpose.
func (h *MiscHandler) Error(c echo.Context) error {
	code := http.StatusInternalServerError
	if err := echo.QueryParamsBinder(c).Int("status_code", &code).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "status_code must be an integer")
	}
	if code < 400 || code > 599 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "status_code must be between 400 and 599")
	}

	msg := http.StatusText(code)
	if msg == "" {
		msg = "HTTP Error"
	}
	return echo.NewHTTPError(code, msg)
}

// RandomQuote handles GET /misc/random-quote. Upstream failures never reach
// the client; a fixed quote is returned instead.
func (h *MiscHandler) RandomQuote(c echo.Context) error {
	return c.JSON(http.StatusOK, h.fetchQuote(c))
}

func (h *MiscHandler) fetchQuote(c echo.Context) quoteResponse {
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, h.quoteURL, nil)
	if err != nil {
		return failedQuote
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return failedQuote
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unavailableQuote
	}

	var body struct {
		Content string   `json:"content"`
		Author  string   `json:"author"`
		Tags    []string `json:"tags"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Content == "" {
		return failedQuote
	}
	if body.Tags == nil {
		body.Tags = []string{}
	}
	return quoteResponse{Quote: body.Content, Author: body.Author, Tags: body.Tags}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
