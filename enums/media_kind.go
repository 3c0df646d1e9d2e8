package enums

type MediaKind string

const (
	MediaKindImage   MediaKind = "image"
	MediaKindVideo   MediaKind = "video"
	MediaKindGif     MediaKind = "gif"
	MediaKindGallery MediaKind = "gallery"
)
