// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for communicating with the
// remote ledger API.
//
// The primary abstraction is [RemoteAPI], which decouples the sync engine
// from the wire protocol. The package ships an HTTP/REST implementation
// ([NewHTTPRemoteAPI]) built on resty with a fixed interceptor chain:
// content-type normalization, bearer-token injection, and structured request
// logging.
//
// Every failure is classified exactly once into the [Kind] taxonomy defined
// in errors.go; callers use [KindOf] and [StatusOf] for transport-agnostic
// error handling and never re-classify downstream.
package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-ledger-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_api_mock.go -package=mock

// ListFilters narrows a List call. The zero value fetches the first page with
// the server's default page size.
type ListFilters struct {
	// Limit bounds the page size; zero lets the server decide.
	Limit int
	// Page selects a 1-based page; zero lets the server decide.
	Page int
	// UpdatedSince, when non-nil, asks the server for records modified after
	// the given instant.
	UpdatedSince *time.Time
}

// RemoteAPI defines transport-agnostic communication with the remote ledger
// service. Implementations are responsible for serialisation, authentication
// header management, response envelope normalization, and one-time error
// classification into the [Kind] taxonomy.
type RemoteAPI interface {
	// List fetches the server's current view of an entity collection.
	// Responses in any of the supported envelope shapes are normalized before
	// decoding. Returns the decoded server records or a classified error.
	List(ctx context.Context, entityType models.EntityType, filters ListFilters) ([]models.ServerRecord, error)

	// Create sends a new entity payload to the server and returns the created
	// server record, including its server-assigned identifier.
	Create(ctx context.Context, entityType models.EntityType, payload json.RawMessage) (models.ServerRecord, error)

	// Update replaces the entity identified by serverID with payload and
	// returns the server's resulting record.
	Update(ctx context.Context, entityType models.EntityType, serverID string, payload json.RawMessage) (models.ServerRecord, error)

	// Delete removes the entity identified by serverID on the server.
	Delete(ctx context.Context, entityType models.EntityType, serverID string) error

	// Ping probes reachability of the remote API. Any HTTP response, success
	// or failure, counts as reachable; only a transport-level failure is
	// returned as an error.
	Ping(ctx context.Context) error
}

// TokenSource supplies the bearer token injected into outbound requests.
// An empty token means the request proceeds unauthenticated; the server is
// the source of truth for auth rejection.
type TokenSource interface {
	Token() string
}
