package ipfs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MixinNetwork/funmint/nft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCid = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

func TestUploadBytes(t *testing.T) {
	var received []byte
	var filename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v0/add", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("pin"))
		f, fh, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		filename = fh.Filename
		received, _ = io.ReadAll(f)
		json.NewEncoder(w).Encode(map[string]string{"Name": fh.Filename, "Hash": testCid, "Size": "12"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "", time.Second)
	addr, err := c.UploadBytes(context.Background(), "fox.png", []byte("fox"))
	require.NoError(t, err)
	assert.Equal(t, "ipfs://"+testCid, addr)
	assert.Equal(t, "fox.png", filename)
	assert.Equal(t, []byte("fox"), received)

	addr, err = c.UploadJSON(context.Background(), &nft.Metadata{Name: "Fox", Description: "d", Image: "ipfs://" + testCid})
	require.NoError(t, err)
	assert.Equal(t, "ipfs://"+testCid, addr)
	assert.Equal(t, "metadata.json", filename)
	var m nft.Metadata
	require.NoError(t, json.Unmarshal(received, &m))
	assert.Equal(t, "Fox", m.Name)
	assert.NotContains(t, string(received), "external_url")

	_, err = c.UploadBytes(context.Background(), "empty.png", nil)
	assert.Error(t, err)
}

func TestUploadBytesFailures(t *testing.T) {
	status, body := http.StatusInternalServerError, "boom"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.UploadBytes(context.Background(), "fox.png", []byte("fox"))
	assert.ErrorContains(t, err, "status 500")

	status, body = http.StatusOK, `{"Hash":"not-a-cid"}`
	_, err = c.UploadBytes(context.Background(), "fox.png", []byte("fox"))
	assert.ErrorContains(t, err, "hash")

	status, body = http.StatusOK, `<html>`
	_, err = c.UploadBytes(context.Background(), "fox.png", []byte("fox"))
	assert.ErrorContains(t, err, "decode")
}

func TestFetchMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/ipfs/"+testCid):
			w.Header().Set("Content-Type", "text/plain")
			io.WriteString(w, `{"name":"Fox","description":"d","image":"ipfs://img","external_url":"https://fox.io"}`)
		case strings.HasSuffix(r.URL.Path, "/ipfs/broken"):
			io.WriteString(w, `not json`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL+"/ipfs/", time.Second)
	assert.Equal(t, srv.URL+"/ipfs/"+testCid, c.GatewayURL("ipfs://"+testCid))

	m, err := c.FetchMetadata(context.Background(), "ipfs://"+testCid)
	require.NoError(t, err)
	assert.Equal(t, &nft.Metadata{Name: "Fox", Description: "d", Image: "ipfs://img", ExternalURL: "https://fox.io"}, m)

	_, err = c.FetchMetadata(context.Background(), "ipfs://broken")
	assert.ErrorContains(t, err, "decode")
	_, err = c.FetchMetadata(context.Background(), "ipfs://missing")
	assert.ErrorContains(t, err, "status 404")
	_, err = c.FetchMetadata(context.Background(), "https://fox.io/meta.json")
	assert.ErrorContains(t, err, "invalid content address")
}
