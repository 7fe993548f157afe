package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRedis represents a throwaway redis instance.
type TestRedis struct {
	Container testcontainers.Container
	URL       string
}

// SetupTestRedis starts a redis container and returns its connection URL.
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	ctx := context.Background()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	t.Cleanup(func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	return &TestRedis{
		Container: redisContainer,
		URL:       "redis://" + endpoint + "/0",
	}
}

// Upstream is a fake product API serving fixed bodies per product id.
type Upstream struct {
	*httptest.Server

	mu     sync.Mutex
	hits   map[string]int
	bodies map[string]string
}

// NewUpstream serves GET /product/{id} from bodies. Unknown ids get 404.
func NewUpstream(t *testing.T, bodies map[string]string) *Upstream {
	t.Helper()

	u := &Upstream{hits: make(map[string]int), bodies: bodies}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/product/")

		u.mu.Lock()
		u.hits[id]++
		body, ok := u.bodies[id]
		u.mu.Unlock()

		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(u.Close)

	return u
}

// Hits returns how many times id was requested.
func (u *Upstream) Hits(id string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[id]
}
