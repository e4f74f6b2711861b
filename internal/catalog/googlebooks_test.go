package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, 2*time.Second)
	client.rateLimiter.interval = 0 // No throttling in tests
	return client, server
}

func TestClient_Search(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "Science Physics", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"items": [
				{
					"volumeInfo": {
						"title": "A Brief History of Time",
						"authors": ["Stephen Hawking"],
						"publishedDate": "1988",
						"description": "From the Big Bang to black holes.",
						"industryIdentifiers": [
							{"type": "ISBN_13", "identifier": "9780553380163"},
							{"type": "ISBN_10", "identifier": "0553380168"}
						]
					}
				},
				{
					"volumeInfo": {
						"title": "Six Easy Pieces",
						"authors": ["Richard Feynman", "Robert Leighton"]
					}
				}
			]
		}`)
	})
	defer server.Close()

	books, err := client.Search(context.Background(), "Science", "Physics")
	require.NoError(t, err)
	require.Len(t, books, 2)

	first := books[0]
	assert.Equal(t, "A Brief History of Time", first.Title)
	assert.Equal(t, "Stephen Hawking", first.Author)
	// First reported identifier wins
	assert.Equal(t, "9780553380163", first.ISBN)
	assert.Equal(t, "1988", first.PublicationYear)
	assert.Equal(t, "From the Big Bang to black holes.", first.Description)
	assert.Equal(t, "Science", first.Category)

	second := books[1]
	assert.Equal(t, "Richard Feynman, Robert Leighton", second.Author)
	assert.Equal(t, "N/A", second.ISBN)
	assert.Equal(t, "N/A", second.PublicationYear)
	assert.Equal(t, "No description available", second.Description)
	assert.Equal(t, "Science", second.Category)
}

func TestClient_Search_LimitsToTen(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [`)
		for i := 0; i < 15; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"volumeInfo": {"title": "Book %d"}}`, i)
		}
		fmt.Fprint(w, `]}`)
	})
	defer server.Close()

	books, err := client.Search(context.Background(), "Fiction", "")
	require.NoError(t, err)
	assert.Len(t, books, 10)
}

func TestClient_Search_EmptyTopic(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Fiction", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"items": []}`)
	})
	defer server.Close()

	books, err := client.Search(context.Background(), "Fiction", "")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestClient_Search_EmptyQuery(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty query")
	})
	defer server.Close()

	_, err := client.Search(context.Background(), "", "")
	assert.Error(t, err)
}

func TestClient_Search_ServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.Search(context.Background(), "Science", "")
	assert.Error(t, err)
}

func TestClient_Search_MalformedResponse(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": not valid json`)
	})
	defer server.Close()

	_, err := client.Search(context.Background(), "Science", "")
	assert.Error(t, err)
}

func TestClient_Search_Unreachable(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // Connection refused

	_, err := client.Search(context.Background(), "Science", "")
	assert.Error(t, err)
}

func TestClient_Search_ContextCancelled(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"items": []}`)
	})
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "Science", "")
	assert.Error(t, err)
}
