package cache

import "fmt"

// AnalyticsKey addresses the analytics summary computed from one document
// revision. A new revision never reuses a stale summary.
func AnalyticsKey(documentName string, revision int64) string {
	return fmt.Sprintf("analytics:%s:%d", documentName, revision)
}

func RateLimitKey(clientIP string) string {
	return fmt.Sprintf("ratelimit:%s", clientIP)
}
