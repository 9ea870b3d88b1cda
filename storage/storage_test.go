//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurxplore/learnstate/storage"
	"github.com/futurxplore/learnstate/storage/inmemory"
)

func TestJSONRoundTrip(t *testing.T) {
	store := inmemory.New()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, storage.SetJSON(store, "k", payload{Name: "nova", Count: 3}))

	var got payload
	require.True(t, storage.GetJSON(store, "k", &got))
	assert.Equal(t, "nova", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestGetJSONMissingKey(t *testing.T) {
	store := inmemory.New()
	var out map[string]string
	assert.False(t, storage.GetJSON(store, "absent", &out))
}

func TestGetJSONCorruptValue(t *testing.T) {
	store := inmemory.New()
	require.NoError(t, store.Set("k", "{not json"))

	var out map[string]string
	assert.False(t, storage.GetJSON(store, "k", &out),
		"corrupt persisted data must read as absent")
}
