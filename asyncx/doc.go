// Package asyncx provides small helpers for running work off the calling
// goroutine: futures, delayed execution and ordered fan-out.
//
//	f := asyncx.Do(ctx, func(ctx context.Context) error {
//		return bus.Post(event)
//	})
//	// ... later, optionally:
//	if err := f.Err(); err != nil {
//		log.Printf("Error: %v", err)
//	}
package asyncx
