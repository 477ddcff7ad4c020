package models

import (
	"encoding/json"
	"time"
)

// ClientPayload holds the business fields of a client (customer) record.
type ClientPayload struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// EventPayload holds the business fields of a calendar event. ClientServerID
// references the related client by its server-side identifier, if any.
type EventPayload struct {
	Title          string     `json:"title"`
	Location       string     `json:"location,omitempty"`
	StartsAt       time.Time  `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	ClientServerID string     `json:"client_id,omitempty"`
}

// BillingDocumentPayload holds the business fields of a receipt-like billing
// document. AmountCents avoids floating point drift across sync round trips.
type BillingDocumentPayload struct {
	Number      string     `json:"number"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status,omitempty"`
	IssuedAt    *time.Time `json:"issued_at,omitempty"`
}

// EncodePayload serialises a typed payload into the opaque form carried by
// [Record].
func EncodePayload(v any) (json.RawMessage, error) {
	return json.Marshal(v)
}

// DecodePayload deserialises a record payload into the typed struct the caller
// expects for the record's entity type.
func DecodePayload(raw json.RawMessage, v any) error {
	return json.Unmarshal(raw, v)
}
