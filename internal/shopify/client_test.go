package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server) *Client {
	return NewStorefrontClient("example.myshopify.com", "token", "2024-10").WithEndpoint(server.URL)
}

func TestQuerySendsTokenHeader(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Shopify-Storefront-Access-Token")
		w.Write([]byte(`{"data":{"shop":{"name":"test"}}}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	var out struct {
		Shop struct {
			Name string `json:"name"`
		} `json:"shop"`
	}
	err := client.Query(context.Background(), "{ shop { name } }", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "token", gotHeader)
	assert.Equal(t, "test", out.Shop.Name)
}

func TestQueryRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.Query(context.Background(), "{ shop { name } }", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueryDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.Query(context.Background(), "{ shop { name } }", nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses are not retried")
}

func TestMutateNeverRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.Mutate(context.Background(), "mutation { x }", nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "mutations must not be replayed")
}

func TestQuerySurfacesGraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Throttled"},{"message":"Field not found"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.Query(context.Background(), "{ bad }", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Throttled")
	assert.Contains(t, err.Error(), "Field not found")
}

func TestQuerySendsVariables(t *testing.T) {
	var gotBody graphQLRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.Query(context.Background(), "query($first: Int!) { x }", map[string]any{"first": 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(10), gotBody.Variables["first"])
}
