package group

// Format is one physical audio file belonging to a version. Formats have no
// identity of their own; they live embedded in their version's format list,
// serialized as a JSON array by the store.
type Format struct {
	// HandleKey is the opaque registry key standing in for the file's
	// capability handle. It is also the de-duplication key on rescan:
	// two formats with the same key are the same physical file.
	HandleKey string `json:"handle_key"`

	FileName string `json:"file_name"`

	// Format is the container/codec name, falling back to the file
	// extension when the container could not be identified.
	Format string `json:"format"`

	// BitrateKbps and DurationSec are nil when extraction failed.
	BitrateKbps *int     `json:"bitrate_kbps"`
	DurationSec *float64 `json:"duration_sec"`

	FileSize int64 `json:"file_size"`

	// ModifiedAt is the file's mtime as unix seconds.
	ModifiedAt int64 `json:"modified_at"`
}
