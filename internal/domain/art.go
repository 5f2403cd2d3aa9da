package domain

// ArtPiece is the display model of one gallery entry.
type ArtPiece struct {
	ID           string  `json:"id"`
	Slug         string  `json:"slug"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"image_url"`
	HiResURL     string  `json:"hi_res_image_url,omitempty"`
	Category     string  `json:"category"`
	Dimensions   string  `json:"dimensions"`
	Medium       string  `json:"medium"`
	Year         int     `json:"year"`
	Month        string  `json:"month"`
	ArtistBio    string  `json:"artist_bio"`
	ArtistAvatar string  `json:"artist_avatar"`
	Ratio        float64 `json:"ratio"`
}

type TipAmount struct {
	Amount int    `json:"amount"`
	Label  string `json:"label"`
}
