package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/instrument-calibration/internal/models"
)

// Client drives the dashboard JSON API the way an operator clicks through it.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// ActionResult mirrors the API response of a placeholder action.
type ActionResult struct {
	Confirmed    bool `json:"confirmed"`
	Notification *struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"notification,omitempty"`
}

var instrumentActions = []string{"calibrate", "edit", "delete"}

var sampleNames = []string{"디지털 멀티미터", "온도계", "압력계", "길이계", "전자저울", "오실로스코프"}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.HTTP.Do(req)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) action(ctx context.Context, path string, body interface{}) (ActionResult, error) {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return ActionResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ActionResult{}, fmt.Errorf("POST %s: status %d", path, resp.StatusCode)
	}
	var res ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return ActionResult{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return res, nil
}

// Catalog fetches the ids the operators pick from.
func (c *Client) Catalog(ctx context.Context) ([]models.Instrument, []models.HistoryRecord, error) {
	var instruments []models.Instrument
	if err := c.getJSON(ctx, "/instruments", &instruments); err != nil {
		return nil, nil, err
	}
	var history []models.HistoryRecord
	if err := c.getJSON(ctx, "/history", &history); err != nil {
		return nil, nil, err
	}
	return instruments, history, nil
}

// Operator is one simulated user.
type Operator struct {
	Name        string
	Client      *Client
	Instruments []models.Instrument
	History     []models.HistoryRecord
	Rand        *rand.Rand
}

// Step performs one random action and returns what the server answered.
func (o *Operator) Step(ctx context.Context) (ActionResult, error) {
	switch n := o.Rand.Intn(10); {
	case n < 6 && len(o.Instruments) > 0:
		ins := o.Instruments[o.Rand.Intn(len(o.Instruments))]
		action := instrumentActions[o.Rand.Intn(len(instrumentActions))]
		var body interface{}
		if action == "delete" {
			body = map[string]bool{"confirm": o.Rand.Intn(2) == 0}
		}
		return o.Client.action(ctx, "/instruments/"+ins.ID+"/"+action, body)
	case n < 8 && len(o.History) > 0:
		rec := o.History[o.Rand.Intn(len(o.History))]
		return o.Client.action(ctx, "/history/"+rec.ID+"/edit", nil)
	default:
		return o.Client.action(ctx, "/registrations", o.registration())
	}
}

func (o *Operator) registration() models.Registration {
	r := models.DefaultRegistration()
	r.InstrumentName = sampleNames[o.Rand.Intn(len(sampleNames))]
	r.ModelNumber = fmt.Sprintf("MDL-%04d", o.Rand.Intn(10000))
	r.Manufacturer = "Keysight"
	r.SerialNumber = fmt.Sprintf("SN%09d", o.Rand.Intn(1000000000))
	r.Category = models.Categories[o.Rand.Intn(len(models.Categories))]
	return r
}

// Run steps on every tick until ctx is done.
func (o *Operator) Run(ctx context.Context, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}

		res, err := o.Step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).WithField("operator", o.Name).Error("Action failed")
			continue
		}
		fields := log.Fields{"operator": o.Name, "confirmed": res.Confirmed}
		if res.Notification != nil {
			fields["message"] = res.Notification.Message
		}
		log.WithFields(fields).Info("Action completed")
	}
}

func simulate(ctx context.Context, client *Client, operators int, interval time.Duration) error {
	instruments, history, err := client.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	log.WithFields(log.Fields{
		"instruments": len(instruments),
		"history":     len(history),
	}).Info("Catalog loaded")

	var wg sync.WaitGroup
	for i := 0; i < operators; i++ {
		op := &Operator{
			Name:        fmt.Sprintf("operator-%d", i+1),
			Client:      client,
			Instruments: instruments,
			History:     history,
			Rand:        rand.New(rand.NewSource(time.Now().UnixNano() + int64(i))),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			op.Run(ctx, interval)
		}()
	}
	wg.Wait()
	return nil
}

func main() {
	operators := 3
	if val := os.Getenv("SIM_OPERATORS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			operators = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"operators": operators,
		"api_url":   apiURL,
		"interval":  interval,
	}).Info("Starting operator simulation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &Client{BaseURL: apiURL, HTTP: &http.Client{Timeout: 10 * time.Second}}
	if err := simulate(ctx, client, operators, interval); err != nil {
		log.WithError(err).Fatal("Simulation failed")
	}
	log.Info("Simulation stopped")
}
