package content

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealbid/sealbid/internal/models"
)

func TestUpload_Success(t *testing.T) {
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(map[string]string{"cid": "QmTest"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.URL, nil, nil)
	cid, err := c.Upload(context.Background(), map[string]string{"hello": "world"})
	require.NoError(t, err)
	assert.Equal(t, "QmTest", cid)
	assert.JSONEq(t, `{"hello":"world"}`, string(received))
}

func TestUpload_PrimaryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.URL, nil, nil)
	_, err := c.Upload(context.Background(), map[string]string{"a": "b"})
	assert.ErrorIs(t, err, models.ErrUploadFailed)
	assert.Contains(t, err.Error(), "disk full")
}

func TestUpload_MirrorFailureIgnored(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"cid": "QmTest"})
	}))
	defer primary.Close()
	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mirror down", http.StatusBadGateway)
	}))
	defer mirror.Close()

	c := NewClient(primary.URL, mirror.URL, primary.URL, nil, nil)
	cid, err := c.Upload(context.Background(), map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, "QmTest", cid)
}

func TestUpload_MirrorReceivesContent(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"cid": "QmTest"})
	}))
	defer primary.Close()

	mirrored := false
	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mirrored = true
		_ = json.NewEncoder(w).Encode(map[string]string{"cid": "QmTest"})
	}))
	defer mirror.Close()

	c := NewClient(primary.URL, mirror.URL, primary.URL, nil, nil)
	_, err := c.Upload(context.Background(), map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.True(t, mirrored, "mirror should receive the upload")
}

func TestFetch_ResolvesIpfsURI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ipfs/QmTest", r.URL.Path)
		_, _ = w.Write([]byte("content bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.URL, nil, nil)
	data, err := c.Fetch(context.Background(), "ipfs://QmTest")
	require.NoError(t, err)
	assert.Equal(t, []byte("content bytes"), data)
}

func TestFetch_PassesThroughHTTPURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/some/other/path", r.URL.Path)
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "http://gateway.invalid", nil, nil)
	data, err := c.Fetch(context.Background(), srv.URL+"/some/other/path")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "content not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.URL, nil, nil)
	_, err := c.Fetch(context.Background(), "ipfs://QmMissing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolve_UnsupportedScheme(t *testing.T) {
	c := NewClient("http://s", "", "http://g", nil, nil)
	_, err := c.Resolve("ftp://nope")
	assert.Error(t, err)
}
