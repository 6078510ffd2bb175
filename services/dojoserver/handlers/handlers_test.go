package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/DojoLocal/services/dojo"
	"github.com/AleutianAI/DojoLocal/services/llm"
	"github.com/AleutianAI/DojoLocal/services/scroll"
)

// mockLLM answers with a canned function.
type mockLLM struct {
	reply func(system, prompt string) (string, error)
}

func (m *mockLLM) Generate(_ context.Context, system, prompt string,
	_ llm.GenerationParams) (string, error) {
	if m.reply != nil {
		return m.reply(system, prompt)
	}
	return "ok", nil
}

func newTestRouter(mock *mockLLM) (*gin.Engine, *dojo.Hokage) {
	gin.SetMode(gin.TestMode)
	ns := scroll.NewNamespace()
	h := dojo.NewHokage(ns, mock, nil)

	router := gin.New()
	router.GET("/health", HealthCheck)
	router.GET("/status", Status(h))
	router.GET("/ninjas", ListNinjas(h))
	router.GET("/jutsu", ListJutsu(h))
	router.GET("/contracts", ListContracts(h))
	router.POST("/dispatch", HandleDispatch(h))
	router.POST("/shadow-clone-army", HandleShadowCloneArmy(h))
	router.POST("/combination", HandleCombination(h))
	router.GET("/v1/scrolls", ListScrolls(ns))
	router.GET("/v1/scroll/*key", GetScroll(ns))
	router.POST("/v1/backward", HandleBackward(ns))
	router.POST("/v1/lineage", HandleLineage(ns))
	return router, h
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{})
	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestStatus(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{})
	w := doJSON(t, router, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "operational", body["status"])
	assert.Len(t, body["ninjas"], 5)
	assert.EqualValues(t, 0, body["missions"])
}

func TestListNinjas(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{})
	w := doJSON(t, router, http.MethodGet, "/ninjas", nil)
	require.Equal(t, http.StatusOK, w.Code)

	ninjas := decode(t, w)["ninjas"].(map[string]any)
	parser := ninjas["parser"].(map[string]any)
	assert.Equal(t, "earth", parser["chakra"])
	assert.Len(t, parser["jutsu"], 2)
}

func TestListJutsu(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{})
	w := doJSON(t, router, http.MethodGet, "/jutsu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	jutsu := decode(t, w)["jutsu"].(map[string]any)
	assert.Len(t, jutsu, 10)
	summarize := jutsu["summarize"].(map[string]any)
	assert.Equal(t, "Condensation Jutsu", summarize["name"])
}

func TestListContracts(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{})
	w := doJSON(t, router, http.MethodGet, "/contracts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["contracts"], 5)
}

func TestHandleDispatch(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{reply: func(_, _ string) (string, error) {
		return "42", nil
	}})

	w := doJSON(t, router, http.MethodPost, "/dispatch", gin.H{
		"ninja": "calculator",
		"jutsu": "calculate",
		"args":  gin.H{"expression": "6*7"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	wire := decode(t, w)["scroll"].(map[string]any)
	assert.Equal(t, "/ninja/calculator/calculate_1", wire["key"])
	meta := wire["meta"].(map[string]any)
	assert.Equal(t, dojo.ResultSchema, meta["schema"])
	payload := wire["data"].(map[string]any)
	assert.Equal(t, "42", payload["response"])
}

func TestHandleDispatchUnknownNinja(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{})
	w := doJSON(t, router, http.MethodPost, "/dispatch", gin.H{
		"ninja": "rogue", "jutsu": "summarize",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDispatchBadBody(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{})
	w := doJSON(t, router, http.MethodPost, "/dispatch", gin.H{"jutsu": "summarize"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDispatchModelFailureIsStillOK(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{reply: func(_, _ string) (string, error) {
		return "", errors.New("daemon down")
	}})

	w := doJSON(t, router, http.MethodPost, "/dispatch", gin.H{
		"ninja": "writer", "jutsu": "summarize", "args": gin.H{"text": "x"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	wire := decode(t, w)["scroll"].(map[string]any)
	meta := wire["meta"].(map[string]any)
	assert.Equal(t, dojo.ErrorSchema, meta["schema"])
}

func TestHandleShadowCloneArmy(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{})

	w := doJSON(t, router, http.MethodPost, "/shadow-clone-army", gin.H{
		"ninja": "writer",
		"jutsu": "summarize",
		"tasks": []gin.H{{"text": "a"}, {"text": "b"}, {"text": "c"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.EqualValues(t, 3, body["count"])
	assert.Len(t, body["scrolls"], 3)
}

func TestHandleShadowCloneArmyRequiresTasks(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{})
	w := doJSON(t, router, http.MethodPost, "/shadow-clone-army", gin.H{
		"ninja": "writer", "jutsu": "summarize", "tasks": []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCombination(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{reply: func(_, prompt string) (string, error) {
		return "chained", nil
	}})

	w := doJSON(t, router, http.MethodPost, "/combination", gin.H{
		"steps": []gin.H{
			{"ninja": "writer", "jutsu": "summarize", "args": gin.H{"text": "doc"}},
			{"ninja": "translator", "jutsu": "translate",
				"args": gin.H{"language": "French", "text": "{previous}"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.EqualValues(t, 2, body["steps"])
	wire := body["scroll"].(map[string]any)
	assert.Contains(t, wire["key"], "/ninja/translator/")
}

func TestScrollRoutes(t *testing.T) {
	router, h := newTestRouter(&mockLLM{})

	_, err := h.Dispatch(context.Background(), "writer", "summarize",
		map[string]string{"text": "doc"})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/v1/scrolls?prefix=/ninja/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["count"])

	w = doJSON(t, router, http.MethodGet, "/v1/scroll/ninja/writer/summarize_1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	wire := decode(t, w)
	assert.Equal(t, "/ninja/writer/summarize_1", wire["key"])

	w = doJSON(t, router, http.MethodGet, "/v1/scroll/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleBackward(t *testing.T) {
	router, h := newTestRouter(&mockLLM{})
	ns := h.Namespace()

	a, err := scroll.New(ns, "/input/a", 2.0)
	require.NoError(t, err)
	b, err := scroll.New(ns, "/input/b", 3.0)
	require.NoError(t, err)
	c, err := a.Scale(b)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/v1/backward", gin.H{"key": c.Key()})
	require.Equal(t, http.StatusOK, w.Code)

	influences := decode(t, w)["influences"].(map[string]any)
	assert.InDelta(t, 3.0, influences["/input/a"], 1e-9)
	assert.InDelta(t, 2.0, influences["/input/b"], 1e-9)
	assert.InDelta(t, 1.0, influences[c.Key()], 1e-9)
}

// TestHandleBackwardStackedDiamonds checks that the backward and lineage
// endpoints stay linear when the seed scroll sits on a chain of diamonds,
// where every level shares ancestors with the one above it.
func TestHandleBackwardStackedDiamonds(t *testing.T) {
	router, h := newTestRouter(&mockLLM{})
	ns := h.Namespace()

	two, err := scroll.New(ns, "/const/two", 2.0)
	require.NoError(t, err)
	three, err := scroll.New(ns, "/const/three", 3.0)
	require.NoError(t, err)

	x, err := scroll.New(ns, "/input/x", 1.0)
	require.NoError(t, err)
	for i := 0; i < 15; i++ {
		p, err := x.Scale(two)
		require.NoError(t, err)
		q, err := x.Scale(three)
		require.NoError(t, err)
		x, err = p.Combine(q)
		require.NoError(t, err)
	}

	w := doJSON(t, router, http.MethodPost, "/v1/backward", gin.H{"key": x.Key()})
	require.Equal(t, http.StatusOK, w.Code)
	influences := decode(t, w)["influences"].(map[string]any)
	assert.Len(t, influences, ns.Len())

	w = doJSON(t, router, http.MethodPost, "/v1/lineage", gin.H{"key": x.Key(), "depth": ns.Len()})
	require.Equal(t, http.StatusOK, w.Code)
	lineage := decode(t, w)["lineage"].([]any)
	assert.Len(t, lineage, ns.Len())
}

func TestHandleBackwardMissingKey(t *testing.T) {
	router, _ := newTestRouter(&mockLLM{})
	w := doJSON(t, router, http.MethodPost, "/v1/backward", gin.H{"key": "/nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleLineage(t *testing.T) {
	router, h := newTestRouter(&mockLLM{})
	ns := h.Namespace()

	a, err := scroll.New(ns, "/input/a", 2.0)
	require.NoError(t, err)
	b, err := scroll.New(ns, "/input/b", 3.0)
	require.NoError(t, err)
	c, err := a.Combine(b)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/v1/lineage", gin.H{"key": c.Key(), "depth": 2})
	require.Equal(t, http.StatusOK, w.Code)

	lineage := decode(t, w)["lineage"].([]any)
	assert.Len(t, lineage, 3)
	first := lineage[0].(map[string]any)
	assert.Equal(t, c.Key(), first["key"])
	assert.Equal(t, "+", first["op"])
}
