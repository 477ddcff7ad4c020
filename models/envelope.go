package models

import "encoding/json"

// Envelope is the single normalized response shape produced by the transport
// layer. Servers answer in several envelope dialects ({success, data}, a bare
// array, {data: [...]}, {<entity plural>: [...]}, or a bare object); the
// adapter folds all of them into this struct before anything downstream sees
// the response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Total   *int            `json:"total,omitempty"`
	Page    *int            `json:"page,omitempty"`
	Limit   *int            `json:"limit,omitempty"`
}
