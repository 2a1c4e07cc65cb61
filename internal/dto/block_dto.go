package dto

import "encoding/json"

type BlockRequest struct {
	URLs []string `json:"urls"`
}

type BlockResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
}

// BlockErrorResponse carries a readable message plus vendor details and
// diagnostic fields. Secrets never appear here.
type BlockErrorResponse struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
	Debug   map[string]any  `json:"debug,omitempty"`
}
