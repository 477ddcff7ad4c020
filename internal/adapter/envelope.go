package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-ledger-sync/models"
)

// normalizeEnvelope folds the server's response dialects into a single
// [models.Envelope]. Accepted shapes:
//
//	{"success": bool, "data": ...}         explicit envelope
//	[...]                                  bare array
//	{"data": [...]}                        data-keyed list
//	{"<entity plural>": [...]}             entity-keyed list
//	{...}                                  bare object
//
// A body that fails JSON parsing is treated as success with nil data: the
// caller only reaches this function with an OK HTTP status.
func normalizeEnvelope(entityType models.EntityType, body []byte) models.Envelope {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return models.Envelope{Success: true}
	}

	if trimmed[0] == '[' {
		if !json.Valid(trimmed) {
			return models.Envelope{Success: true}
		}
		return models.Envelope{Success: true, Data: json.RawMessage(trimmed)}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return models.Envelope{Success: true}
	}

	if rawSuccess, ok := obj["success"]; ok {
		env := models.Envelope{Data: obj["data"]}
		if err := json.Unmarshal(rawSuccess, &env.Success); err != nil {
			env.Success = true
		}
		decodePagination(obj, &env)
		return env
	}

	if data, ok := obj["data"]; ok {
		env := models.Envelope{Success: true, Data: data}
		decodePagination(obj, &env)
		return env
	}

	if data, ok := obj[string(entityType)]; ok {
		env := models.Envelope{Success: true, Data: data}
		decodePagination(obj, &env)
		return env
	}

	// Bare object: the whole body is the payload.
	return models.Envelope{Success: true, Data: json.RawMessage(trimmed)}
}

func decodePagination(obj map[string]json.RawMessage, env *models.Envelope) {
	for key, dst := range map[string]**int{"total": &env.Total, "page": &env.Page, "limit": &env.Limit} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var v int
		if err := json.Unmarshal(raw, &v); err == nil {
			*dst = &v
		}
	}
}

// decodeServerRecords unpacks a normalized envelope data field into server
// records. Each element keeps its full JSON object as the opaque payload;
// only "id" and "version" are lifted out for the sync engine.
func decodeServerRecords(data json.RawMessage) ([]models.ServerRecord, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		// A single bare object is accepted as a one-element list.
		var single json.RawMessage
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("decode server records: %w", err)
		}
		items = []json.RawMessage{single}
	}

	records := make([]models.ServerRecord, 0, len(items))
	for _, item := range items {
		rec, err := decodeServerRecord(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func decodeServerRecord(item json.RawMessage) (models.ServerRecord, error) {
	var probe struct {
		ID      json.RawMessage `json:"id"`
		Version *int64          `json:"version"`
	}
	if err := json.Unmarshal(item, &probe); err != nil {
		return models.ServerRecord{}, fmt.Errorf("decode server record: %w", err)
	}
	if len(probe.ID) == 0 {
		return models.ServerRecord{}, fmt.Errorf("decode server record: missing id")
	}

	id, err := stringifyID(probe.ID)
	if err != nil {
		return models.ServerRecord{}, err
	}

	return models.ServerRecord{ID: id, Version: probe.Version, Payload: item}, nil
}

// stringifyID accepts both string and numeric server identifiers.
func stringifyID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}

	return "", fmt.Errorf("decode server record: unsupported id %s", raw)
}
