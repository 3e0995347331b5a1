// Where: cli/internal/store/store.go
// What: Remote credential store on DynamoDB (index) + S3 (blobs).
// Why: Persist encrypted signing artifacts per (account, app, bundle, platform).
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/poruru/mobile-signing-box/cli/internal/credentials"
)

// IndexItem is one DynamoDB row: a credential handle pointing at the
// S3 object holding the actual material.
type IndexItem struct {
	Scope     string
	Kind      string
	HandleID  string
	BlobKey   string
	UpdatedAt string
}

// IndexAPI is the DynamoDB surface used by the store.
type IndexAPI interface {
	Query(ctx context.Context, scope string) ([]IndexItem, error)
	Put(ctx context.Context, item IndexItem) error
	Delete(ctx context.Context, scope, kind string) error
}

// BlobAPI is the S3 surface used by the store.
type BlobAPI interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
	Delete(ctx context.Context, key string) error
}

// Store implements the credential store contract against the index and
// blob backends.
type Store struct {
	index IndexAPI
	blobs BlobAPI
	now   func() time.Time
}

// New constructs a Store.
func New(index IndexAPI, blobs BlobAPI) *Store {
	return &Store{index: index, blobs: blobs, now: time.Now}
}

// blobPayload is the JSON document persisted per credential kind.
type blobPayload struct {
	Scalar string            `json:"scalar,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func scopeKey(scope credentials.Scope) string {
	return scope.Account + "#" + scope.AppSlug + "#" + scope.BundleIdentifier + "#" + scope.Platform
}

func blobKey(scope credentials.Scope, kind credentials.Kind) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s.json",
		scope.Account, scope.AppSlug, scope.BundleIdentifier, scope.Platform, kind)
}

// Fetch returns the stored credential set for the scope. Kinds outside
// the fixed universe are skipped.
func (s *Store) Fetch(ctx context.Context, scope credentials.Scope) (credentials.Existing, error) {
	items, err := s.index.Query(ctx, scopeKey(scope))
	if err != nil {
		return nil, fmt.Errorf("query credential index: %w", err)
	}

	existing := credentials.Existing{}
	for _, item := range items {
		kind := credentials.Kind(item.Kind)
		if !credentials.Known(kind) {
			continue
		}
		raw, err := s.blobs.Get(ctx, item.BlobKey)
		if err != nil {
			return nil, fmt.Errorf("fetch credential blob %s: %w", item.BlobKey, err)
		}
		var payload blobPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decode credential blob %s: %w", item.BlobKey, err)
		}
		existing[credentials.Canonical(kind)] = credentials.StoredCredential{
			HandleID: item.HandleID,
			Value:    credentials.Value{Scalar: payload.Scalar, Fields: payload.Fields},
		}
	}
	return existing, nil
}

// Update persists the bundle. Kinds carried over from the existing set
// or generated at the authority keep their handle id (the portal's
// artifact id, the target of any later revocation); only user-provided
// material, which has no portal artifact, gets a synthetic one.
func (s *Store) Update(ctx context.Context, scope credentials.Scope, bundle credentials.Bundle, existingHandleIDs map[credentials.Kind]string) error {
	for kind, value := range bundle {
		key := blobKey(scope, kind)
		raw, err := json.Marshal(blobPayload{Scalar: value.Scalar, Fields: value.Fields})
		if err != nil {
			return fmt.Errorf("encode credential blob for %s: %w", kind, err)
		}
		if err := s.blobs.Put(ctx, key, raw); err != nil {
			return fmt.Errorf("store credential blob for %s: %w", kind, err)
		}

		handleID := existingHandleIDs[kind]
		if handleID == "" {
			handleID = newHandleID()
		}
		item := IndexItem{
			Scope:     scopeKey(scope),
			Kind:      string(kind),
			HandleID:  handleID,
			BlobKey:   key,
			UpdatedAt: s.now().UTC().Format(time.RFC3339),
		}
		if err := s.index.Put(ctx, item); err != nil {
			return fmt.Errorf("index credential %s: %w", kind, err)
		}
	}
	return nil
}

// Remove deletes the given kinds from the store. Removing an absent
// kind is a no-op, so repeated calls are safe.
func (s *Store) Remove(ctx context.Context, scope credentials.Scope, kinds []credentials.Kind) error {
	for _, kind := range kinds {
		kind = credentials.Canonical(kind)
		if err := s.index.Delete(ctx, scopeKey(scope), string(kind)); err != nil {
			return fmt.Errorf("remove credential index for %s: %w", kind, err)
		}
		if err := s.blobs.Delete(ctx, blobKey(scope, kind)); err != nil {
			return fmt.Errorf("remove credential blob for %s: %w", kind, err)
		}
	}
	return nil
}

// newHandleID names user-provided material, which the authority never
// issued an artifact id for.
func newHandleID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("handle-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
