package entity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parlex-ai/parlex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuckling_DisabledReturnsNothing(t *testing.T) {
	d := NewDuckling() // disabled by default

	entities, err := d.Extract(context.Background(), "tomorrow at 5pm", "en")

	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.False(t, d.Enabled())
}

func TestDuckling_ParsesDimensions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/parse", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "en_US", r.Form.Get("locale"))
		assert.Equal(t, "run 3 miles tomorrow", r.Form.Get("text"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"body":"3 miles","start":4,"end":11,"dim":"distance","value":{"value":3,"unit":"mile"}},
			{"body":"tomorrow","start":12,"end":20,"dim":"time","value":{"value":"2026-08-29T00:00:00.000Z"}}
		]`))
	}))
	defer srv.Close()

	d := NewDuckling(func(o *DucklingOptions) {
		o.Enabled = true
		o.URL = srv.URL
	})

	entities, err := d.Extract(context.Background(), "run 3 miles tomorrow", "en")

	require.NoError(t, err)
	require.Len(t, entities, 2)

	assert.Equal(t, core.EntityKindSystem, entities[0].Kind)
	assert.Equal(t, "distance", entities[0].Name)
	assert.Equal(t, "3", entities[0].Value)
	assert.Equal(t, "mile", entities[0].Unit)
	assert.Equal(t, 4, entities[0].Start)
	assert.Equal(t, 11, entities[0].End)

	assert.Equal(t, "time", entities[1].Name)
	assert.Equal(t, "2026-08-29T00:00:00.000Z", entities[1].Value)
}

func TestDuckling_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDuckling(func(o *DucklingOptions) {
		o.Enabled = true
		o.URL = srv.URL
	})

	_, err := d.Extract(context.Background(), "text", "en")

	assert.Error(t, err)
}
