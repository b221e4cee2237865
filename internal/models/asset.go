package models

// Asset is a cached static resource.
type Asset struct {
	Path        string
	ContentType string
	Body        []byte
}
