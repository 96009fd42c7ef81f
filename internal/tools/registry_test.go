// ABOUTME: Tests for the tool registry
// ABOUTME: Registration order, collisions, admin visibility and dispatch

package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/calorie-gateway/internal/auth"
)

func echoTool(name string, adminOnly bool) Tool {
	return Tool{
		Name:        name,
		InputSchema: json.RawMessage(`{"type":"object"}`),
		AdminOnly:   adminOnly,
		Handler: func(_ context.Context, id auth.Identity, input json.RawMessage) Result {
			return textResult(id.UserID + ":" + string(input))
		},
	}
}

func TestRegistry_RegisterAndList(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(echoTool("b", false)))
	require.NoError(t, r.Register(echoTool("a", true)))
	require.NoError(t, r.Register(echoTool("c", false)))

	err := r.Register(echoTool("a", false))
	assert.ErrorIs(t, err, ErrToolCollision)

	err = r.Register(Tool{Name: "nohandler"})
	assert.Error(t, err)

	var names []string
	for _, tool := range r.List() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)

	names = nil
	for _, tool := range r.ListFor(auth.Identity{UserID: "u1"}) {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"b", "c"}, names)
	assert.Len(t, r.ListFor(auth.Identity{UserID: "adm", IsAdmin: true}), 3)
	assert.Len(t, r.List(), 3, "filtering must not disturb the registry")
}

func TestRegistry_Call(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(echoTool("echo", false)))
	id := auth.Identity{UserID: "u1"}

	res, err := r.Call(t.Context(), id, "echo", json.RawMessage(`{"x":1}`))
	require.NoError(t, err)
	assert.Equal(t, `u1:{"x":1}`, res.Text)

	for _, empty := range []json.RawMessage{nil, json.RawMessage("null")} {
		res, err = r.Call(t.Context(), id, "echo", empty)
		require.NoError(t, err)
		assert.Equal(t, "u1:{}", res.Text)
	}

	_, err = r.Call(t.Context(), id, "missing", nil)
	assert.ErrorIs(t, err, ErrToolNotFound)
}
