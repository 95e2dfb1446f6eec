package moly

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewClient("https://moly.test", WithHTTPClient(httpClient), WithRequestInterval(0))
}

func TestGetDocumentParsesPage(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("GET", "https://moly.test/konyvek/1",
		httpmock.NewStringResponder(200, `<html><body><h1><span>Egri csillagok</span></h1></body></html>`))

	doc, err := c.GetDocument(context.Background(), "/konyvek/1")

	require.NoError(t, err)
	assert.Equal(t, "Egri csillagok", doc.Find("h1 span").Text())
}

func TestGetDocumentResolvesRelativePaths(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("GET", "https://moly.test/lists/2026-fantasy",
		httpmock.NewStringResponder(200, "<html></html>"))

	_, err := c.GetDocument(context.Background(), "lists/2026-fantasy")

	require.NoError(t, err)
}

func TestGetDocumentAbsoluteURLBypassesBase(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder("GET", "https://elsewhere.test/page",
		httpmock.NewStringResponder(200, "<html></html>"))

	_, err := c.GetDocument(context.Background(), "https://elsewhere.test/page")

	require.NoError(t, err)
}

func TestGetDocumentRetriesUntilSuccess(t *testing.T) {
	c := newTestClient(t)

	calls := 0
	httpmock.RegisterResponder("GET", "https://moly.test/flaky", func(*http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return httpmock.NewStringResponse(503, "busy"), nil
		}
		return httpmock.NewStringResponse(200, "<html></html>"), nil
	})

	doc, err := c.GetDocument(context.Background(), "/flaky")

	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Equal(t, 3, calls)
}

func TestGetDocumentExhaustsRetriesOn404(t *testing.T) {
	c := newTestClient(t)

	calls := 0
	httpmock.RegisterResponder("GET", "https://moly.test/gone", func(*http.Request) (*http.Response, error) {
		calls++
		return httpmock.NewStringResponse(404, "not found"), nil
	})

	_, err := c.GetDocument(context.Background(), "/gone")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), "https://moly.test/gone")
	assert.Equal(t, 5, calls)
}

func TestGetDocumentDoesNotRetryUnlistedStatus(t *testing.T) {
	c := newTestClient(t)

	calls := 0
	httpmock.RegisterResponder("GET", "https://moly.test/cached", func(*http.Request) (*http.Response, error) {
		calls++
		return httpmock.NewStringResponse(304, ""), nil
	})

	_, err := c.GetDocument(context.Background(), "/cached")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
	assert.Equal(t, 1, calls)
}

func TestGetDocumentSendsUserAgent(t *testing.T) {
	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	c := NewClient("https://moly.test",
		WithHTTPClient(httpClient),
		WithRequestInterval(0),
		WithUserAgent("booklist-test/1.0"),
	)

	var gotUA string
	httpmock.RegisterResponder("GET", "https://moly.test/ua", func(req *http.Request) (*http.Response, error) {
		gotUA = req.Header.Get("User-Agent")
		return httpmock.NewStringResponse(200, "<html></html>"), nil
	})

	_, err := c.GetDocument(context.Background(), "/ua")

	require.NoError(t, err)
	assert.Equal(t, "booklist-test/1.0", gotUA)
}

func TestRetryableStatus(t *testing.T) {
	for _, code := range []int{100, 199, 400, 404, 429, 500, 503, 599} {
		assert.True(t, retryableStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 204, 304, 430, 451, 600} {
		assert.False(t, retryableStatus(code), "status %d", code)
	}
}
