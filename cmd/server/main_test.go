package main

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"pairplay/backend/internal/game"
	"pairplay/backend/internal/game/gametest"
	"pairplay/backend/internal/handler"
	"pairplay/backend/internal/hub"
	"pairplay/backend/internal/monitor"
)

var (
	pathParam     = regexp.MustCompile(`:(\w+)`)
	definitionRef = regexp.MustCompile(`#/definitions/([\w.]+)`)
)

func TestSwaggerDocumentsEveryAPIRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	players := gametest.NewPlayers()
	events := hub.NewHub()
	router := setupRouter(
		monitor.NewMetrics("test", prometheus.NewRegistry()),
		handler.NewGameHandler(game.NewService(players, gametest.NewGames()), players, events),
		handler.NewMessageHandler(events),
	)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		BasePath    string                                `json:"basePath"`
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Equal(t, "/api", doc.BasePath)

	documented := 0
	for _, route := range router.Routes() {
		if !strings.HasPrefix(route.Path, doc.BasePath+"/") && route.Path != doc.BasePath {
			continue
		}
		path := pathParam.ReplaceAllString(strings.TrimPrefix(route.Path, doc.BasePath), "{$1}")
		op, ok := doc.Paths[path][strings.ToLower(route.Method)]
		if assert.True(t, ok, "%s %s is not documented", route.Method, path) {
			documented++
			for _, ref := range definitionRef.FindAllStringSubmatch(string(op), -1) {
				assert.Contains(t, doc.Definitions, ref[1], "%s %s", route.Method, path)
			}
		}
	}

	total := 0
	for _, ops := range doc.Paths {
		total += len(ops)
	}
	assert.Equal(t, total, documented, "documented operations without a route")
}
