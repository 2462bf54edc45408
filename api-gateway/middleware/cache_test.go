package middleware

import "testing"

func TestCacheAllowList_ScanStateNeverCached(t *testing.T) {
	config := DefaultCacheConfig()

	// Scan session state changes on every POST; a cached GET would hand the
	// operator a stale phase.
	scanPaths := []string{
		"/api/scan/sessions",
		"/api/scan/sessions/2f3c9a1e",
		"/api/scan/sessions/2f3c9a1e/item",
	}
	for _, path := range scanPaths {
		if isPathCacheable(path, config.CacheablePrefixes) {
			t.Errorf("scan path must not be cacheable: %s", path)
		}
	}

	if isPathCacheable("/api/cells/10/range", config.CacheablePrefixes) {
		t.Error("cell configuration must not be cacheable")
	}
}

func TestCacheAllowList_ReportingRoutesCached(t *testing.T) {
	config := DefaultCacheConfig()

	for _, path := range []string{"/api/transfers", "/api/occupancy"} {
		if !isPathCacheable(path, config.CacheablePrefixes) {
			t.Errorf("reporting path should be cacheable: %s", path)
		}
	}
}

func TestCacheConfig_OnlyOKResponses(t *testing.T) {
	config := DefaultCacheConfig()

	if !isStatusCacheable(200, config.CacheableStatus) {
		t.Error("200 responses should be cacheable")
	}
	for _, status := range []int{201, 404, 500} {
		if isStatusCacheable(status, config.CacheableStatus) {
			t.Errorf("status %d must not be cacheable", status)
		}
	}
}

func TestCacheMethods(t *testing.T) {
	config := DefaultCacheConfig()

	if !isMethodCacheable("GET", config.CacheableMethods) {
		t.Error("GET should be cacheable")
	}
	for _, method := range []string{"POST", "PATCH", "DELETE"} {
		if isMethodCacheable(method, config.CacheableMethods) {
			t.Errorf("method %s must not be cacheable", method)
		}
	}
}
