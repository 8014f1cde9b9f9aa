package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gridfall/internal/sim"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type SeasonStatus struct {
	Season        sim.Season `json:"season"`
	DaysRemaining int        `json:"days_remaining"`
}

func (c *Client) Season(ctx context.Context) (SeasonStatus, error) {
	var out SeasonStatus
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/season", &out)
	return out, err
}

func (c *Client) EndSeason(ctx context.Context) (sim.Season, error) {
	var out struct {
		Season sim.Season `json:"season"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/season/end", &out)
	return out.Season, err
}

func (c *Client) Ripples(ctx context.Context) ([]sim.Ripple, error) {
	var out struct {
		Ripples []sim.Ripple `json:"ripples"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/ripples", &out)
	return out.Ripples, err
}

func (c *Client) Effects(ctx context.Context) (sim.Effects, error) {
	var out struct {
		Effects sim.Effects `json:"effects"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/effects", &out)
	return out.Effects, err
}

func (c *Client) Glitch(ctx context.Context) (sim.DailyGlitch, error) {
	var out struct {
		Glitch sim.DailyGlitch `json:"glitch"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/glitch", &out)
	return out.Glitch, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
