// Package httputil fetches puzzle definitions from remote feeds.
//
// # Overview
//
// Publishing pipelines often pull puzzles from an editorial feed instead of
// the local disk. This package provides the pieces the loader needs for that:
//
//   - [Client]: GET with default headers, status mapping and retries
//   - [Cache]: file-based cache of fetched bodies with a TTL
//   - [Retry]: retry with exponential backoff for transient failures
//
// # Caching
//
// [Cache] stores responses under ~/.cache/gridtile/feeds/ by default. A feed
// that publishes the same puzzle every time it is polled is fetched once per
// TTL:
//
//	c, err := httputil.NewCache("", 24*time.Hour)
//	client := httputil.NewClient(c, map[string]string{"User-Agent": "gridtile"})
//	body, err := client.Fetch(ctx, "https://feed.example/gbw-042.json", false)
//
// # Retry
//
// Network errors and 5xx responses are wrapped in [RetryableError] and
// retried three times, doubling a one second delay. A 404 is reported as
// [ErrNotFound] without retrying.
package httputil
