package notifications

import (
	"context"
	"log"
	"time"
)

// CallAsync runs a notification send off the request path. Push delivery
// must never fail a request; errors are logged and dropped.
func CallAsync(fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				log.Printf("notification panic recovered: %v", r)
			}
		}()

		if err := fn(ctx); err != nil {
			log.Printf("notification send failed: %v", err)
		}
	}()
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
