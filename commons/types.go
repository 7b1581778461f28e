package commons

// Metadata is the plain-text extended metadata of one file.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Artist      string `json:"artist"`
	License     string `json:"license"`
	Credit      string `json:"credit"`
}

func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// Image describes one candidate wallpaper. PageID only orders images; it is
// unique within a single fetch.
type Image struct {
	PageID         int64
	Title          string
	URL            string
	DescriptionURL string
	Width          int
	Height         int
	Metadata       Metadata
}

type apiResponse struct {
	Query struct {
		Pages map[string]apiPage `json:"pages"`
	} `json:"query"`
}

type apiPage struct {
	PageID    int64          `json:"pageid"`
	Title     string         `json:"title"`
	ImageInfo []apiImageInfo `json:"imageinfo"`
}

type apiImageInfo struct {
	URL            string                 `json:"url"`
	DescriptionURL string                 `json:"descriptionurl"`
	Width          int                    `json:"width"`
	Height         int                    `json:"height"`
	ExtMetadata    map[string]apiExtField `json:"extmetadata"`
}

type apiExtField struct {
	Value any `json:"value"`
}
