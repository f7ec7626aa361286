package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "shop_testkey")
	return srv, client
}

func jsonResponse(data any) []byte {
	b, _ := json.Marshal(map[string]any{"success": true, "data": data})
	return b
}

func TestLogin(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		w.Write(jsonResponse(map[string]any{
			"api_key":  "shop_newkey",
			"username": "frontdesk",
		}))
	})

	resp, err := client.Login("frontdesk")
	require.NoError(t, err)
	assert.Equal(t, "shop_newkey", resp.APIKey)
	assert.Equal(t, "frontdesk", resp.Username)
}

func TestBearerHeaderSent(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer shop_testkey", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write(jsonResponse(map[string]any{"id": "c1", "first_name": "Ada"}))
	})

	_, err := client.GetCustomer("c1")
	require.NoError(t, err)
}

func TestHTTPErrorNestedObject(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		b, _ := json.Marshal(map[string]any{
			"success": false,
			"error": map[string]any{
				"code":    "NOT_FOUND",
				"message": "job not found",
			},
		})
		w.Write(b)
	})

	_, err := client.GetJob("nope")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND: job not found", err.Error())
}

func TestHTTPErrorMessageOnly(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"vin is required"}`))
	})

	_, err := client.CreateVehicle(CreateVehicleInput{CustomerID: "c1"})
	require.Error(t, err)
	assert.Equal(t, "vin is required", err.Error())
}

func TestHTTPErrorPlainBody(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	_, err := client.ListJobs(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestSuccessFalseWithOKStatusIsError(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"bay is locked"}`))
	})

	_, err := client.GetJob("j1")
	require.Error(t, err)
	assert.Equal(t, "bay is locked", err.Error())
}

func TestResultErr(t *testing.T) {
	yes, no := true, false
	assert.NoError(t, Result[int]{}.Err())
	assert.NoError(t, Result[int]{Success: &yes}.Err())
	assert.EqualError(t, Result[int]{Success: &no}.Err(), "request failed")
	assert.EqualError(t, Result[int]{Success: &no, Message: "nope"}.Err(), "nope")
	assert.EqualError(t, Result[int]{Success: &no, Error: json.RawMessage(`{"code":"X"}`)}.Err(), "X")
}

func TestBuildQuery(t *testing.T) {
	result := buildQuery("/api/jobs", QueryParams{"status": "in-bay", "priority": "high", "empty": ""})
	assert.Contains(t, result, "/api/jobs?")
	assert.Contains(t, result, "status=in-bay")
	assert.Contains(t, result, "priority=high")
	assert.NotContains(t, result, "empty")
}

func TestBuildQueryEmpty(t *testing.T) {
	assert.Equal(t, "/api/jobs", buildQuery("/api/jobs", nil))
}

func TestNewClientCustomTimeout(t *testing.T) {
	client := NewClient("http://example.com", "shop_testkey", 5*time.Second)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "http://example.com", client.BaseURL())
}

func TestClientConcurrentRequests(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		w.Write(jsonResponse(map[string]any{"id": "v1", "make": "Ford"}))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "shop_testkey")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := client.GetVehicle(fmt.Sprintf("v-%d", idx))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(workers), count.Load())
}

func TestClientHandlesMalformedJSON(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-json"))
	})

	_, err := client.GetJob("j1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
