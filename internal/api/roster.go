package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// RosterClient downloads seed rosters over HTTP.
type RosterClient struct {
	client *fasthttp.Client
}

// RosterDocument is the seed file layout: one list per pool.
type RosterDocument struct {
	Indians    []RosterEntry `json:"indians"`
	Foreigners []RosterEntry `json:"foreigners"`
}

type RosterEntry struct {
	Player         string  `json:"player"`
	Role           string  `json:"role"`
	Matches        int     `json:"matches"`
	Runs           int     `json:"runs"`
	Wickets        int     `json:"wickets"`
	ImpactPerMatch float64 `json:"impactPerMatch"`
	TotalImpact    float64 `json:"total_impact"`
	ImagePath      string  `json:"imagePath"`
	BattingStyle   string  `json:"battingStyle"`
	BowlingStyle   string  `json:"bowlingStyle"`
	Team           string  `json:"team"`
}

func NewRosterClient() *RosterClient {
	return &RosterClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     4,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *RosterClient) FetchRoster(ctx context.Context, url string) (*RosterDocument, error) {
	return doRequest[RosterDocument](ctx, c, url)
}

// ParseRoster decodes a roster document read from disk.
func ParseRoster(data []byte) (*RosterDocument, error) {
	var doc RosterDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	return &doc, nil
}

func doRequest[T any](ctx context.Context, client *RosterClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("roster source error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
