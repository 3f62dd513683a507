package menuapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "ysg", 5*time.Second)
}

func TestFetchStore(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stores/public/slug/ysg", r.URL.Path)
		assert.Equal(t, "menubot/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"_id":"s1","name":"YSG","facebookUrl":"https://fb.com/ysg","instagramUrl":"not-a-url"}`))
	})

	s, err := c.FetchStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "YSG", s.Name)
	assert.Equal(t, map[string]string{"Facebook": "https://fb.com/ysg"}, s.Social)
}

func TestFetchCategoriesMixedIDShapes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories/store/slug/ysg", r.URL.Path)
		w.Write([]byte(`[{"_id":"c1","name":"Drinks"},{"id":42,"name":"Food"}]`))
	})

	cats, err := c.FetchCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "c1", cats[0].ID)
	assert.Equal(t, "42", cats[1].ID)
	assert.Equal(t, "Food", cats[1].Name)
}

func TestFetchProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/public-store/slug/ysg", r.URL.Path)
		w.Write([]byte(`[
			{"_id":"p1","title":"Burger","price":5.5,"category":{"_id":"c1","name":"Food"}},
			{"_id":"p2","name":"Soda","price":"2 лв","category":"c2","isAvailable":false}
		]`))
	})

	products, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Burger", products[0].Title)
	assert.Equal(t, 5.5, products[0].Price)
	assert.Equal(t, "c1", products[0].Category.ID)

	assert.Equal(t, "Soda", products[1].Name)
	assert.Equal(t, "2 лв", products[1].Price)
	assert.Equal(t, "c2", products[1].Category.Raw)
	require.NotNil(t, products[1].IsAvailable)
	assert.False(t, *products[1].IsAvailable)
}

func TestFetchErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
		_, err := c.FetchStore(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"name":`))
		})
		_, err := c.FetchStore(context.Background())
		assert.Error(t, err)
	})

	t.Run("unreachable host", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", "ysg", 200*time.Millisecond)
		_, err := c.FetchProducts(context.Background())
		assert.Error(t, err)
	})
}
