package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"warehouse-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegration_ConcurrentAuthentication hammers the public surface with one
// key from many goroutines. Every request must authenticate, while the
// debounced last_used_at touch writes through at most once per window.
func TestIntegration_ConcurrentAuthentication(t *testing.T) {
	app := newTestApp(t, config.NotifierConfig{})
	defer app.close()

	session := app.signup(t, "concurrent@example.com")
	token := app.createKey(t, session, nil)

	const workers = 50
	var wg sync.WaitGroup
	codes := make(chan int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodGet, app.server.URL+"/public/orders", nil)
			if err != nil {
				codes <- 0
				return
			}
			req.Header.Set("X-API-Key", token)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				codes <- 0
				return
			}
			resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}

	// Detached touches settle quickly; the debounce collapses them into a
	// single last_used_at write.
	deadline := time.Now().Add(2 * time.Second)
	for {
		key, err := app.keyRepo.GetByToken(context.Background(), token)
		require.NoError(t, err)
		if key.LastUsedAt != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("last_used_at never recorded")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
