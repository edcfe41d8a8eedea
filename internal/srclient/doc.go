// Package srclient is the HTTP client for the Sveriges Radio open API.
//
// # Overview
//
// A Client builds request URLs from an endpoint and a parameter set, performs
// the GET with a per-call timeout and bounded retries, and keeps the decoded
// JSON of every successful response in a bounded in-memory cache keyed by the
// full request URL.
//
// # Conditional Requests
//
// When a fresh cached entry carries an ETag, the next request for the same URL
// sends If-None-Match. A 304 keeps the cached payload and recomputes its expiry
// from the new Cache-Control header:
//
//	first  GET /channels?format=json            -> 200, ETag "abc", max-age=60
//	second GET /channels?format=json            -> If-None-Match: abc -> 304
//
// Responses without max-age stay fresh for five minutes.
//
// # Retries
//
// One logical fetch makes at most MaxRetries+1 attempts. Transport errors and
// the statuses 429, 500, 502, 503 and 504 are retried after (k+1)*200ms.
// Cancellation, including the per-call timeout, is never retried.
//
// # Stale Fallback
//
// Any failure for a URL that has ever been cached, fresh or expired, returns the
// cached payload and logs a warning. Without a cached entry the failure is passed
// to the configured Normalizer.
//
// # Cache Bound
//
// The cache holds at most MaxCacheEntries responses and evicts the oldest
// inserted URL first. Expired entries are kept until evicted or cleared.
//
// # Usage
//
//	client, err := srclient.New(srclient.Config{Timeout: 8 * time.Second},
//		srclient.WithNormalizer(apierr.Normalize),
//		srclient.WithLogger(logger),
//	)
//	channels, err := srclient.GetPaginated[ChannelList](ctx, client, "channels", srclient.Params{"size": 20})
package srclient
