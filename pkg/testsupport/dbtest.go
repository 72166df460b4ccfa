package testsupport

import (
	"net/url"
	"testing"
)

// SQLiteMemoryDSN returns a shared-cache in-memory sqlite DSN unique to t.
func SQLiteMemoryDSN(t testing.TB) string {
	return "file:" + url.PathEscape(t.Name()) + "?mode=memory&cache=shared"
}
