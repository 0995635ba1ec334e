package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankDoc = `[{"question":"q","answers":["a","b"],"correctAnswer":"a"}]`

// fakeBucket serves path-style HEAD and GET requests for a single bucket.
func fakeBucket(t *testing.T, bucket string, objects map[string]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := strings.CutPrefix(r.URL.Path, "/"+bucket+"/")
		body, found := objects[key]
		if !ok || !found {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)

		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(body))
		}
	}))
}

func newTestService(t *testing.T, endpoint string) StorageService {
	t.Helper()

	svc, err := NewStorageService(context.Background(), ServiceConfig{
		S3BucketName:      "banks",
		S3Endpoint:        endpoint,
		S3AccessKeyID:     "test",
		S3SecretAccessKey: "test",
	})
	require.NoError(t, err)
	return svc
}

func TestDownload(t *testing.T) {
	srv := fakeBucket(t, "banks", map[string]string{"general.json": bankDoc})
	defer srv.Close()

	data, err := newTestService(t, srv.URL).Download(context.Background(), "general.json")
	require.NoError(t, err)
	assert.JSONEq(t, bankDoc, string(data))
}

func TestDownloadMissingObject(t *testing.T) {
	srv := fakeBucket(t, "banks", map[string]string{})
	defer srv.Close()

	_, err := newTestService(t, srv.URL).Download(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestExists(t *testing.T) {
	srv := fakeBucket(t, "banks", map[string]string{"general.json": bankDoc})
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	ok, err := svc.Exists(context.Background(), "general.json")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(context.Background(), "other.json")
	require.NoError(t, err)
	assert.False(t, ok)
}
