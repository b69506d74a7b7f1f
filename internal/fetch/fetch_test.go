package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte("<html>ok</html>"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("a", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := New()
	f.Client = srv.Client()

	body, err := f.Bytes(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", string(body))

	_, err = f.Bytes(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrStatus)

	f.MaxBytes = 10
	_, err = f.Bytes(context.Background(), srv.URL+"/big")
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = f.Bytes(context.Background(), "::not a url")
	assert.Error(t, err)
}
