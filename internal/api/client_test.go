package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mgen/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{BaseURL: srv.URL, Token: "secret", Timeout: 5 * time.Second, RetryMax: retries})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "localhost"})
	require.Error(t, err)
}

func TestQuery_Values(t *testing.T) {
	q := (&Client{}).Query("items").
		Filter("project_id", "p1").
		Filter("published", true).
		OrderBy("name", "DESC").
		Range("size", 1, 10)

	v, err := q.Values()
	require.NoError(t, err)
	require.JSONEq(t, `[{"property":"project_id","value":"p1"},{"property":"published","value":true}]`, v.Get("filter"))
	require.JSONEq(t, `[{"property":"name","direction":"desc"}]`, v.Get("sort"))
	require.JSONEq(t, `[{"property":"size","value_from":1,"value_to":10}]`, v.Get("range"))
	require.False(t, v.Has("page"))
	require.False(t, v.Has("start"))
	require.False(t, v.Has("limit"))

	v, err = (&Client{}).Query("items").DefaultPage().Values()
	require.NoError(t, err)
	require.Equal(t, "1", v.Get("page"))
	require.Equal(t, "0", v.Get("start"))
	require.Equal(t, "50", v.Get("limit"))
}

func TestQuery_OmitsEmptyParams(t *testing.T) {
	v, err := (&Client{}).Query("items").Page(2, 10, 10).Values()
	require.NoError(t, err)
	require.False(t, v.Has("filter"))
	require.False(t, v.Has("sort"))
	require.False(t, v.Has("range"))
	require.Equal(t, "2", v.Get("page"))
	require.Equal(t, "10", v.Get("start"))
	require.Equal(t, "10", v.Get("limit"))
}

func TestQuery_BuildErrors(t *testing.T) {
	_, err := (&Client{}).Query("items").OrderBy("name", "sideways").Values()
	require.ErrorContains(t, err, "sort direction")

	_, err = (&Client{}).Query("items").Page(0, 0, 10).Values()
	require.ErrorContains(t, err, "invalid paging")
}

func TestFetch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/templates", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.JSONEq(t, `[{"property":"project_id","value":"p1"}]`, r.URL.Query().Get("filter"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"total": 2, "page": 1, "start": 0, "limit": 50,
			"templates": []map[string]string{
				{"id": "t1", "name": "Base", "type": "mako"},
				{"id": "t2", "name": "Blog", "type": "mako"},
			},
		})
	}, 0)

	res, err := c.Query(model.CollectionTemplates).Filter("project_id", "p1").DefaultPage().Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	require.Equal(t, 50, res.Limit)

	tpls, err := Decode[model.Template](res)
	require.NoError(t, err)
	require.Len(t, tpls, 2)
	require.Equal(t, "Blog", tpls[1].Name)
}

func TestOne_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"total": 0, "projects": []interface{}{}})
	}, 0)

	var p model.Project
	err := c.Query(model.CollectionProjects).One(context.Background(), &p)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/projects/p1", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"total":    1,
			"projects": []map[string]interface{}{{"id": "p1", "title": "Blog", "slugs": []string{"s1"}}},
		})
	}, 0)

	var p model.Project
	require.NoError(t, c.Get(context.Background(), model.CollectionProjects, "p1", &p))
	require.Equal(t, "Blog", p.Title)
	require.True(t, p.Deployable())
}

func TestCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "About", body["name"])

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"total": 1,
			"items": []map[string]interface{}{{"id": "i1", "name": "About"}},
		})
	}, 0)

	res, err := c.Create(context.Background(), model.CollectionItems, model.Item{Name: "About"})
	require.NoError(t, err)

	var it model.Item
	require.NoError(t, res.First(&it))
	require.Equal(t, "i1", it.ID)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"exception": "Conflict",
			"reason":    "duplicate object",
			"traceback": []string{"Traceback:\n", "  line 1\n"},
		})
	}, 0)

	_, err := c.Create(context.Background(), model.CollectionItems, map[string]string{"name": "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.Status)
	require.Equal(t, "Conflict", apiErr.Title())
	require.Equal(t, "duplicate object\nTraceback:\n  line 1", apiErr.Message())
	require.True(t, IsStatus(err, http.StatusConflict))
}

func TestAPIError_PlainBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such page", http.StatusNotFound)
	}, 0)

	_, err := c.Query("pages").Fetch(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "404 Not Found", apiErr.Title())
	require.Equal(t, "no such page", apiErr.Reason)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"total": 0, "items": []interface{}{}})
	}, 1)

	res, err := c.Query("items").Fetch(context.Background())
	require.NoError(t, err)
	require.Zero(t, res.Total)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCreateIsNotRetried(t *testing.T) {
	var posts int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		if atomic.AddInt32(&posts, 1) == 1 {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"exception": "InternalError", "reason": "commit lost"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{"total": 1, "items": []map[string]string{{"id": "i2"}}})
	}, 3)

	_, err := c.Create(context.Background(), model.CollectionItems, map[string]string{"name": "About"})
	require.True(t, IsStatus(err, http.StatusInternalServerError))
	require.Equal(t, int32(1), atomic.LoadInt32(&posts))
}

func TestPretty(t *testing.T) {
	require.Equal(t, "{\n  \"id\": \"i1\"\n}", Pretty(json.RawMessage(`{"id":"i1"}`)))
	require.Equal(t, "not json", Pretty(json.RawMessage("not json")))
}

func TestServerErrorAfterRetries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"exception": "InternalError", "reason": "boom"})
	}, 0)

	_, err := c.Query("items").Fetch(context.Background())
	require.True(t, IsStatus(err, http.StatusInternalServerError))
	require.ErrorContains(t, err, "boom")
}
