// Package resilience groups the fault tolerance helpers used around calls to
// external services.
//
// The package supports:
//   - Circuit breakers for external API calls (the IBGE SIDRA API)
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.SIDRAConfig())
//	rows, err := retry.Do(ctx, retry.SIDRAConfig(1, 0), func(ctx context.Context) ([]entity.SubdistrictRecord, error) {
//	    return circuitbreaker.Run(cb, func() ([]entity.SubdistrictRecord, error) {
//	        return fetch(ctx)
//	    })
//	})
package resilience
