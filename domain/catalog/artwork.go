// Package catalog holds the artwork catalog domain: artworks, their visual
// descriptors, the in-process snapshot, and the similarity matching engine.
package catalog

// Artwork is a catalog entry with display metadata and a map of free-text
// descriptions keyed by 2-letter language code.
type Artwork struct {
	id           string
	title        string
	artist       string
	year         string
	museum       string
	location     string
	descriptions map[string]string
}

// ArtworkOption is a functional option for Artwork.
type ArtworkOption func(*Artwork)

// WithTitle sets the display title.
func WithTitle(title string) ArtworkOption {
	return func(a *Artwork) { a.title = title }
}

// WithArtist sets the artist name.
func WithArtist(artist string) ArtworkOption {
	return func(a *Artwork) { a.artist = artist }
}

// WithYear sets the creation year (free-form, e.g. "c. 1503").
func WithYear(year string) ArtworkOption {
	return func(a *Artwork) { a.year = year }
}

// WithMuseum sets the holding museum.
func WithMuseum(museum string) ArtworkOption {
	return func(a *Artwork) { a.museum = museum }
}

// WithLocation sets the museum location.
func WithLocation(location string) ArtworkOption {
	return func(a *Artwork) { a.location = location }
}

// WithDescriptions sets the language-keyed description map.
func WithDescriptions(descriptions map[string]string) ArtworkOption {
	return func(a *Artwork) {
		if descriptions == nil {
			a.descriptions = nil
			return
		}
		a.descriptions = make(map[string]string, len(descriptions))
		for k, v := range descriptions {
			a.descriptions[k] = v
		}
	}
}

// NewArtwork creates an Artwork with the given ID and options.
func NewArtwork(id string, opts ...ArtworkOption) Artwork {
	a := Artwork{id: id}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// ID returns the artwork identifier (a slug, globally unique).
func (a Artwork) ID() string { return a.id }

// Title returns the display title.
func (a Artwork) Title() string { return a.title }

// Artist returns the artist name.
func (a Artwork) Artist() string { return a.artist }

// Year returns the creation year.
func (a Artwork) Year() string { return a.year }

// Museum returns the holding museum.
func (a Artwork) Museum() string { return a.museum }

// Location returns the museum location.
func (a Artwork) Location() string { return a.location }

// Descriptions returns a copy of the language-keyed description map,
// or nil if the artwork has none.
func (a Artwork) Descriptions() map[string]string {
	if a.descriptions == nil {
		return nil
	}
	out := make(map[string]string, len(a.descriptions))
	for k, v := range a.descriptions {
		out[k] = v
	}
	return out
}

// Description resolves a description for the requested 2-letter language
// code. The fallback chain is fixed: requested language, then Italian, then
// English, then an arbitrary entry. Returns "", false when the artwork has
// no descriptions at all.
func (a Artwork) Description(lang string) (string, bool) {
	if len(a.descriptions) == 0 {
		return "", false
	}
	if lang != "" {
		if d, ok := a.descriptions[lang]; ok && d != "" {
			return d, true
		}
	}
	for _, fallback := range []string{"it", "en"} {
		if d, ok := a.descriptions[fallback]; ok && d != "" {
			return d, true
		}
	}
	for _, d := range a.descriptions {
		return d, true
	}
	return "", false
}
