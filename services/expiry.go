package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/store"
)

// ExpireClients transitions every active client whose contract end date has
// passed to expired, recording expired_at. Each client is expired
// independently and concurrently; a failure on one is logged and never
// blocks the others. Returns the number of clients expired.
func ExpireClients(ctx context.Context, st store.Client, activity *ActivityLogger, now time.Time) int {
	var clients map[string]models.Client
	if err := st.ReadOnce(ctx, store.PathClients, &clients); err != nil {
		log.Printf("[Expiry] clients read failed: %v", err)
		return 0
	}

	today := DateKey(now)
	var wg sync.WaitGroup
	var mu sync.Mutex
	expired := 0

	for key, c := range clients {
		status := c.Status
		if status == "" {
			status = models.ClientActive
		}
		if status != models.ClientActive || c.ContractEnd == "" || c.ContractEnd >= today {
			continue
		}
		wg.Add(1)
		go func(key string, c models.Client) {
			defer wg.Done()
			err := st.Update(ctx, store.ChildPath(store.PathClients, key), map[string]interface{}{
				"status":     models.ClientExpired,
				"expired_at": today,
			})
			if err != nil {
				log.Printf("[Expiry] auto-expire failed for %s: %v", key, err)
				return
			}
			name := c.FamilyName
			if name == "" {
				name = c.ParentName
			}
			if activity != nil {
				activity.Log("client_expired",
					"Auto-expired client: "+name+" (contract ended "+c.ContractEnd+")",
					"client", "")
			}
			mu.Lock()
			expired++
			mu.Unlock()
		}(key, c)
	}
	wg.Wait()
	return expired
}
