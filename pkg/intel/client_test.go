package intel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/pulseboard/pkg/domain"
)

func TestClient_Discoveries(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/business-intelligence/awesome-discoveries", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"title":"Automation deep dive","author":"jdoe","technical_level":"advanced","engagement_potential":"high","discovery_type":"automation"}]`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)
		discoveries, err := client.Discoveries(context.Background())
		require.NoError(t, err)
		require.Len(t, discoveries, 1)
		assert.Equal(t, "Automation deep dive", discoveries[0].Title)
		assert.Equal(t, domain.LevelAdvanced, discoveries[0].TechnicalLevel)
		assert.Equal(t, domain.EngagementHigh, discoveries[0].EngagementPotential)
	})

	t.Run("malformed payload treated as empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"an array"}`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)
		discoveries, err := client.Discoveries(context.Background())
		require.NoError(t, err)
		assert.Empty(t, discoveries)
		assert.NotNil(t, discoveries)
	})

	t.Run("server down", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := New(server.URL, time.Second, 1)
		_, err := client.Discoveries(context.Background())
		require.Error(t, err)
	})
}

func TestClient_CriticalIssues(t *testing.T) {
	t.Run("window forwarded verbatim", func(t *testing.T) {
		var gotDays string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/business-intelligence/critical-issues", r.URL.Path)
			gotDays = r.URL.Query().Get("days")
			w.Write([]byte(`[{"issue_title":"Sync broken","severity":"critical","report_count":42}]`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)
		for _, days := range []int{7, 14, 30} {
			issues, err := client.CriticalIssues(context.Background(), days)
			require.NoError(t, err)
			assert.Equal(t, map[int]string{7: "7", 14: "14", 30: "30"}[days], gotDays)
			require.Len(t, issues, 1)
			assert.Equal(t, domain.SeverityCritical, issues[0].Severity)
			assert.Equal(t, 42, issues[0].ReportCount)
		}
	})

	t.Run("malformed payload treated as empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`"nope"`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)
		issues, err := client.CriticalIssues(context.Background(), 7)
		require.NoError(t, err)
		assert.Empty(t, issues)
	})
}

func TestClient_Roadmap(t *testing.T) {
	t.Run("platform paths", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/roadmap/cloud":
				w.Write([]byte(`{"platform":"cloud","features":[{"title":"Smart search","status":"Released","quarter":"Q1 2025"}]}`))
			case "/api/roadmap/data-center":
				w.Write([]byte(`{"platform":"datacenter","features":[]}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)

		cloud, err := client.Roadmap(context.Background(), domain.PlatformCloud)
		require.NoError(t, err)
		assert.Equal(t, domain.PlatformCloud, cloud.Platform)
		require.Len(t, cloud.Features, 1)
		assert.Equal(t, "Smart search", cloud.Features[0].Title)

		dc, err := client.Roadmap(context.Background(), domain.PlatformDataCenter)
		require.NoError(t, err)
		assert.Equal(t, domain.PlatformDataCenter, dc.Platform)
		assert.Empty(t, dc.Features)
	})

	t.Run("malformed payload treated as empty snapshot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[1,2,3]`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)
		snapshot, err := client.Roadmap(context.Background(), domain.PlatformCloud)
		require.NoError(t, err)
		assert.Equal(t, domain.PlatformCloud, snapshot.Platform)
		assert.Empty(t, snapshot.Features)
	})
}

func TestClient_Posts(t *testing.T) {
	t.Run("listing forwards filters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/posts", r.URL.Path)
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			assert.Equal(t, "20", r.URL.Query().Get("skip"))
			assert.Equal(t, "tracker", r.URL.Query().Get("category"))
			assert.Equal(t, "negative", r.URL.Query().Get("sentiment"))
			w.Write([]byte(`[{"id":1,"title":"Login fails","category":"tracker","sentiment_label":"negative"}]`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)
		posts, err := client.ListPosts(context.Background(), ListPostsRequest{
			Limit: 10, Skip: 20, Category: domain.ProductTracker, Sentiment: domain.SentimentNegative})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, int64(1), posts[0].ID)
	})

	t.Run("listing omits empty filters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.False(t, r.URL.Query().Has("category"))
			assert.False(t, r.URL.Query().Has("sentiment"))
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)
		_, err := client.ListPosts(context.Background(), ListPostsRequest{Limit: 10})
		require.NoError(t, err)
	})

	t.Run("search forwards query only", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/posts/search", r.URL.Path)
			assert.Equal(t, "webhook", r.URL.Query().Get("query"))
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			assert.Equal(t, "0", r.URL.Query().Get("skip"))
			w.Write([]byte(`[{"id":2,"title":"Webhook retries"}]`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)
		posts, err := client.SearchPosts(context.Background(), SearchPostsRequest{Query: "webhook", Limit: 10})
		require.NoError(t, err)
		require.Len(t, posts, 1)
	})

	t.Run("stats", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/posts/stats", r.URL.Path)
			w.Write([]byte(`{"total_posts":95}`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)
		stats, err := client.PostStats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 95, stats.TotalPosts)
	})

	t.Run("malformed stats is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 1)
		_, err := client.PostStats(context.Background())
		require.Error(t, err)
	})
}

func TestClient_Retries(t *testing.T) {
	t.Run("5xx retried until success", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 5)
		_, err := client.Discoveries(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("4xx not retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second, 5)
		_, err := client.Discoveries(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUpstreamStatus)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}
