package models

// MediaKind identifies the logical type of a title
type MediaKind string

const (
	// KindMovie is a standalone movie title
	KindMovie MediaKind = "movie"
	// KindEpisode is a single TV episode (show + season + episode)
	KindEpisode MediaKind = "episode"
)

// Version is one physical file representing a specific cut/quality of a title.
// Versions are immutable once fetched from the catalog and are owned
// exclusively by the Group that contains them.
type Version struct {
	// ID is the stable, opaque version identifier supplied by the catalog
	ID string

	// RatingKey is the catalog identifier of the owning item, needed for
	// retraction calls
	RatingKey string

	// Path is the absolute file path on disk
	Path string

	// Size in bytes
	Size int64

	// Resolution is a display label such as "1080" or "4k" (may be empty)
	Resolution string

	// Codec is a display label such as "h264" (may be empty)
	Codec string
}

// Record is one catalog listing entry as supplied by the library service.
// The logical title key is pre-resolved by the catalog; the builder groups
// by it without inferring identity of its own.
type Record struct {
	LogicalKey string
	Kind       MediaKind
	Title      string
	VersionID  string
	RatingKey  string
	Path       string
	Size       int64
	Resolution string
	Codec      string
}
