package content

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
)

const (
	ArtistName   = "Jaxsen"
	ArtistBio    = "Jaxsen is the visionary founder of Jaxsenville and its inaugural artist-in-residence. As both civic leader and creative force, Jaxsen embodies the unique spirit of a community where governance and artistry intersect to create something entirely new."
	ArtistAvatar = "https://images.ctfassets.net/sjvnthjshuvn/D2KPBNKPj11QyIXDQjd7a/52635151273dfe9d23aca2bbf5275fc6/2.webp"

	defaultMedium = "Mixed Media"
	// baseWidthInches is the nominal print width dimensions are derived from.
	baseWidthInches = 24
)

// ArtEntry is an art entry that passed validation. Its asset links are
// already resolved to URLs.
type ArtEntry struct {
	ID        string
	Title     string
	Date      time.Time
	Media     string
	LowRezURL string
	HiRezURL  string
	Ratio     float64
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseEntry(e entry, assets map[string]string) (ArtEntry, error) {
	f := e.Fields
	var errs []error
	if e.Sys.ID == "" {
		errs = append(errs, errors.New("missing sys.id"))
	}
	if strings.TrimSpace(f.Title) == "" {
		errs = append(errs, errors.New("missing title"))
	}
	date, err := parseDate(f.Date)
	if err != nil {
		errs = append(errs, err)
	}
	if f.Ratio <= 0 || math.IsNaN(f.Ratio) || math.IsInf(f.Ratio, 0) {
		errs = append(errs, fmt.Errorf("invalid ratio %v", f.Ratio))
	}
	low, err := resolveAsset(f.LowRez, assets)
	if err != nil {
		errs = append(errs, fmt.Errorf("lowRez: %w", err))
	}
	hi, err := resolveAsset(f.HiRez, assets)
	if err != nil {
		errs = append(errs, fmt.Errorf("hiRez: %w", err))
	}
	if len(errs) > 0 {
		return ArtEntry{}, errors.Join(errs...)
	}

	return ArtEntry{
		ID:        e.Sys.ID,
		Title:     f.Title,
		Date:      date,
		Media:     f.Media,
		LowRezURL: low,
		HiRezURL:  hi,
		Ratio:     f.Ratio,
	}, nil
}

func resolveAsset(l *link, assets map[string]string) (string, error) {
	if l == nil || l.Sys.ID == "" {
		return "", errors.New("missing asset link")
	}
	u, ok := assets[l.Sys.ID]
	if !ok {
		return "", fmt.Errorf("unresolved asset %s", l.Sys.ID)
	}
	return u, nil
}

// ToArtPiece maps a validated entry to the gallery display model.
func ToArtPiece(e ArtEntry) domain.ArtPiece {
	medium := e.Media
	if medium == "" {
		medium = defaultMedium
	}
	return domain.ArtPiece{
		ID:           e.ID,
		Slug:         Slug(e.Title),
		Title:        e.Title,
		Artist:       ArtistName,
		ImageURL:     absoluteURL(e.LowRezURL),
		HiResURL:     absoluteURL(e.HiRezURL),
		Category:     medium,
		Medium:       medium,
		Dimensions:   Dimensions(e.Ratio),
		Year:         e.Date.Year(),
		Month:        e.Date.Month().String(),
		ArtistBio:    ArtistBio,
		ArtistAvatar: ArtistAvatar,
		Ratio:        e.Ratio,
	}
}

// Dimensions renders width x height in inches for a width/height ratio.
func Dimensions(ratio float64) string {
	height := int(math.Round(baseWidthInches / ratio))
	return fmt.Sprintf(`%d" x %d"`, baseWidthInches, height)
}

// Contentful serves asset URLs protocol-relative.
func absoluteURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
