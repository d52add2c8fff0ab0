package packets

// MemoryView is what the listing and edit pages render. DisplayURL is the
// fixed-size rendition; ImageURL is the stored original.
type MemoryView struct {
	ID          int
	Title       string
	Description string
	ImageURL    string
	DisplayURL  string
}
