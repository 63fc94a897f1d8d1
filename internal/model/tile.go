package model

type TileItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Link      string `json:"link,omitempty"`
}

// Tile is one dashboard card. A tile whose provider call failed comes back
// with Error set instead of failing the whole dashboard.
type Tile struct {
	Type  string     `json:"type"`
	Title string     `json:"title"`
	Items []TileItem `json:"items,omitempty"`
	Error string     `json:"error,omitempty"`
}

type GetTilesRequest struct {
	// Sources is a comma-separated subset of "gmail,calendar"; empty means
	// all of them.
	Sources string `json:"sources"`
	Limit   int64  `json:"limit"`
}

type GetTilesResponse struct {
	Tiles []Tile `json:"tiles"`
}
