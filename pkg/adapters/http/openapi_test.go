package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)

	for _, path := range []string{"/health", "/info", "/state", "/page", "/signals/{name}", "/events", "/metrics", "/openapi.json"} {
		assert.NotNil(t, doc.Paths.Value(path), path)
	}

	post := doc.Paths.Value("/signals/{name}").Post
	require.NotNil(t, post)
	assert.Equal(t, "postSignal", post.OperationID)
	assert.NotNil(t, post.Parameters.GetByInAndName("path", "name"))
	assert.NotNil(t, post.Parameters.GetByInAndName("query", "animation"))
}

func TestGetOpenAPI(t *testing.T) {
	w := serve(t, NewHandler(&MockEngine{}), "GET", "/openapi.json")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "3.0.3", body["openapi"])
	assert.Contains(t, body["paths"], "/signals/{name}")
}
