package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Categorías</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Categorías</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.NotEmpty(t, result.Body)
}

func TestURL_TLSWithoutVerification(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "ok")

	strict := DefaultOptions()
	strict.InsecureSkipVerify = false
	_, err = URL(context.Background(), server.URL, strict)
	assert.Error(t, err)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_CustomHeaders(t *testing.T) {
	var receivedUA, receivedCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUA = r.Header.Get("User-Agent")
		receivedCustom = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	opts := &Options{
		Timeout:   5 * time.Second,
		UserAgent: "TestAgent/1.0",
		Headers:   map[string]string{"X-Custom": "test-value"},
	}

	_, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, "TestAgent/1.0", receivedUA)
	assert.Equal(t, "test-value", receivedCustom)
}

func TestURL_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := URL(ctx, server.URL, nil)
	assert.Error(t, err)
}

func TestDecodeBody(t *testing.T) {
	t.Run("utf8 passes through", func(t *testing.T) {
		assert.Equal(t, "Categoría", DecodeBody([]byte("Categoría")))
	})
	t.Run("windows-1252 is decoded", func(t *testing.T) {
		// "Categoría" with í encoded as 0xED
		latin := []byte{'C', 'a', 't', 'e', 'g', 'o', 'r', 0xED, 'a'}
		assert.Equal(t, "Categoría", DecodeBody(latin))
	})
}

func TestExtractMainText_RemovesNoise(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<script>var x = 1;</script>
			<h1>Monotributo</h1>
			<p>Vigencia a partir del 1/8/2025</p>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html)
	require.NoError(t, err)
	assert.Equal(t, "Monotributo\nVigencia a partir del 1/8/2025", text)
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a\nb", cleanWhitespace("  a  \n\n\t\n b "))
	assert.Equal(t, "", cleanWhitespace("\n\n"))
}
