package core

// View cache keys. A key names a logical view; mutating services invalidate
// the keys of every view that renders the mutated entity.
const (
	ViewHome          = "home"
	ViewAdminSettings = "admin:settings"
	ViewAdminUsers    = "admin:users"
	ViewSchedules     = "schedules"
	ViewAssignments   = "assignments"
	ViewGallery       = "gallery"
	ViewOfficers      = "officers"
)

// ViewCache caches rendered view payloads by logical key.
type ViewCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, payload []byte)
	// Invalidate drops the given keys so they are recomputed on next access.
	Invalidate(keys ...string)
}

// NopViewCache discards everything; used when caching is disabled.
type NopViewCache struct{}

var _ ViewCache = (*NopViewCache)(nil)

func (NopViewCache) Get(string) ([]byte, bool) { return nil, false }
func (NopViewCache) Set(string, []byte)        {}
func (NopViewCache) Invalidate(...string)      {}
