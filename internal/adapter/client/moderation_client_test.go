package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/service"
)

func TestModerationClient_Classify(t *testing.T) {
	t.Run("successful classification", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/classify", r.URL.Path)
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req ClassifyRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			require.NoError(t, err)
			assert.Equal(t, "test text", req.Text)

			w.Header().Set("Content-Type", "application/json")
			_, err = w.Write([]byte(`{"routed":true,"reasoning":"targets a group","classification_type":"classify_hate","classification":"hate","confidence":0.87}`))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewModerationClient(server.URL, 5*time.Second)
		result, err := client.Classify(context.Background(), "test text")

		require.NoError(t, err)
		require.NotNil(t, result.Routed)
		assert.True(t, *result.Routed)
		assert.Equal(t, "targets a group", *result.Reasoning)
		assert.Equal(t, "classify_hate", *result.ClassificationType)
		assert.Equal(t, "hate", *result.Classification)
		assert.Equal(t, 0.87, *result.Confidence)
	})

	t.Run("trims trailing slash from base URL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/classify", r.URL.Path)
			_, _ = w.Write([]byte(`{"routed":false,"reasoning":"neutral"}`))
		}))
		defer server.Close()

		client := NewModerationClient(server.URL+"/", 5*time.Second)
		result, err := client.Classify(context.Background(), "hello")

		require.NoError(t, err)
		assert.False(t, *result.Routed)
		assert.Nil(t, result.ClassificationType)
	})

	t.Run("server error with detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, err := w.Write([]byte(`{"detail":"boom"}`))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewModerationClient(server.URL, 5*time.Second)
		_, err := client.Classify(context.Background(), "test")

		var svcErr *service.ServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)
		assert.Equal(t, "boom", svcErr.Detail)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("server error without detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream unavailable"))
		}))
		defer server.Close()

		client := NewModerationClient(server.URL, 5*time.Second)
		_, err := client.Classify(context.Background(), "test")

		var svcErr *service.ServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, http.StatusBadGateway, svcErr.StatusCode)
		assert.Empty(t, svcErr.Detail)
	})

	t.Run("validation error detail list is ignored", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail":[{"loc":["body","text"],"msg":"field required"}]}`))
		}))
		defer server.Close()

		client := NewModerationClient(server.URL, 5*time.Second)
		_, err := client.Classify(context.Background(), "test")

		var svcErr *service.ServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Empty(t, svcErr.Detail)
	})

	t.Run("invalid JSON body is malformed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		client := NewModerationClient(server.URL, 5*time.Second)
		_, err := client.Classify(context.Background(), "test")

		assert.ErrorIs(t, err, service.ErrMalformedResponse)
	})

	t.Run("connection error", func(t *testing.T) {
		client := NewModerationClient("http://localhost:99999", 1*time.Second)
		_, err := client.Classify(context.Background(), "test")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrMalformedResponse)
	})

	t.Run("cancelled context aborts request", func(t *testing.T) {
		released := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			// The server only notices a closed connection once the body is consumed.
			_, _ = io.Copy(io.Discard, r.Body)
			select {
			case <-r.Context().Done():
				close(released)
			case <-time.After(5 * time.Second):
			}
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		client := NewModerationClient(server.URL, 0)
		_, err := client.Classify(ctx, "test")

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		select {
		case <-released:
		case <-time.After(2 * time.Second):
			t.Fatal("server request was not cancelled")
		}
	})
}

func TestModerationClient_Health(t *testing.T) {
	t.Run("healthy service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/", r.URL.Path)
			assert.Equal(t, "GET", r.Method)

			w.Header().Set("Content-Type", "application/json")
			err := json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewModerationClient(server.URL, 5*time.Second)
		result, err := client.Health(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "ok", result.Status)
	})

	t.Run("unhealthy service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewModerationClient(server.URL, 5*time.Second)
		_, err := client.Health(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unhealthy")
	})
}
