package content

import (
	"testing"
	"unicode/utf8"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Blue Hour", "blue-hour"},
		{"Blue Hour, No. 2", "blue-hour-no-2"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Mixed -- Hyphens", "mixed-hyphens"},
		{"Café Society", "caf-society"},
		{"!!!", ""},
		{"-already-slugged-", "already-slugged"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestSlugToTitle(t *testing.T) {
	assert.Equal(t, "Blue Hour", SlugToTitle("blue-hour"))
	assert.Equal(t, "A 2 Z", SlugToTitle("a-2-z"))
	assert.Equal(t, "", SlugToTitle(""))
}

func TestSlugToTitle_MultibyteFirstLetter(t *testing.T) {
	got := SlugToTitle("élan-vital-ñu")
	assert.Equal(t, "Élan Vital Ñu", got)
	assert.True(t, utf8.ValidString(got))
}

func TestFindBySlug(t *testing.T) {
	pieces := []domain.ArtPiece{
		{ID: "1", Title: "Blue Hour"},
		{ID: "2", Title: "Red Shift!"},
	}

	p, ok := FindBySlug(pieces, "red-shift")
	assert.True(t, ok)
	assert.Equal(t, "2", p.ID)

	_, ok = FindBySlug(pieces, "green")
	assert.False(t, ok)
}
