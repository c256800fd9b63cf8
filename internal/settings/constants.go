package settings

// DB config keys and defaults for settings.
const (
	// SiteNameKey is the DB config key for the back-office display name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback back-office display name.
	DefaultSiteName = "GenAdmin"
	// DefaultPageSizeKey is the DB config key for list page sizes.
	DefaultPageSizeKey = "DEFAULT_PAGE_SIZE"
	// DefaultPageSizeValue is the fallback list page size.
	DefaultPageSizeValue = "20"
)

// Pagination bounds applied to list endpoints.
const (
	// DefaultPageSize is the page size when the query omits one.
	DefaultPageSize = 20
	// MaxPageSize caps the page size a caller may request.
	MaxPageSize = 100
)
