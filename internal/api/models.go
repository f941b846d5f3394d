package api

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/zzenonn/go-mckp"
)

// Response is the envelope of every API response.
type Response struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	Cached    bool      `json:"cached,omitempty"`
}

// APIError is the error body of a failed request.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// OptimizeRequest asks for the best configuration under a budget.
//
// Dataset has the same shape as a dataset file. When it is omitted the
// server's configured dataset is used.
type OptimizeRequest struct {
	Dataset   json.RawMessage `json:"dataset,omitempty"`
	Budget    *float64        `json:"budget" validate:"required"`
	Objective string          `json:"objective" validate:"required"`
	Strategy  string          `json:"strategy,omitempty" validate:"omitempty,oneof=table diagram bruteforce"`
}

// OptimizeResponse is the data of a successful optimize request.
type OptimizeResponse struct {
	Choices   []mckp.Choice       `json:"choices"`
	Stats     mckp.AggregateStats `json:"stats"`
	Objective string              `json:"objective"`
	Value     float64             `json:"value"`
	Weight    float64             `json:"weight"`
	Budget    float64             `json:"budget"`
	Strategy  string              `json:"strategy"`
	Text      string              `json:"text"`
}

// CountRequest asks how many configurations fit a budget.
type CountRequest struct {
	Dataset json.RawMessage `json:"dataset,omitempty"`
	Budget  *float64        `json:"budget" validate:"required"`
}

// CountResponse is the data of a successful count request.
type CountResponse struct {
	Configurations uint64  `json:"configurations"`
	Budget         float64 `json:"budget"`
}

// RankRequest asks for the k best configurations under a budget.
type RankRequest struct {
	Dataset   json.RawMessage `json:"dataset,omitempty"`
	Budget    *float64        `json:"budget" validate:"required"`
	Objective string          `json:"objective" validate:"required"`
	K         int             `json:"k" validate:"required,gte=1,lte=100"`
}

// RankedConfiguration is one entry of a rank response.
type RankedConfiguration struct {
	Choices []mckp.Choice `json:"choices"`
	Value   float64       `json:"value"`
	Weight  float64       `json:"weight"`
}

// RankResponse is the data of a successful rank request, best first.
type RankResponse struct {
	Configurations []RankedConfiguration `json:"configurations"`
	Objective      string                `json:"objective"`
	Budget         float64               `json:"budget"`
}

// AttributesResponse lists the attributes that can be maximized.
type AttributesResponse struct {
	Categories []string `json:"categories"`
	Attributes []string `json:"attributes"`
}

// HealthResponse reports server status.
type HealthResponse struct {
	Status         string  `json:"status"`
	DefaultDataset bool    `json:"default_dataset"`
	CachedResults  int     `json:"cached_results"`
	Uptime         float64 `json:"uptime_seconds"`
}
