package persistence

import "github.com/artlens/artlens/domain/catalog"

// ArtworkMapper converts between catalog.Artwork and ArtworkModel.
type ArtworkMapper struct{}

// ToModel converts a domain artwork to its database model.
func (ArtworkMapper) ToModel(a catalog.Artwork) ArtworkModel {
	return ArtworkModel{
		ID:           a.ID(),
		Title:        a.Title(),
		Artist:       a.Artist(),
		Year:         a.Year(),
		Museum:       a.Museum(),
		Location:     a.Location(),
		Descriptions: StringMap(a.Descriptions()),
	}
}

// ToDomain converts a database model to a domain artwork.
func (ArtworkMapper) ToDomain(m ArtworkModel) catalog.Artwork {
	return catalog.NewArtwork(m.ID,
		catalog.WithTitle(m.Title),
		catalog.WithArtist(m.Artist),
		catalog.WithYear(m.Year),
		catalog.WithMuseum(m.Museum),
		catalog.WithLocation(m.Location),
		catalog.WithDescriptions(m.Descriptions),
	)
}

// DescriptorMapper converts between catalog.Descriptor and DescriptorModel.
type DescriptorMapper struct{}

// ToModel converts a domain descriptor to its database model.
func (DescriptorMapper) ToModel(d catalog.Descriptor) DescriptorModel {
	return DescriptorModel{
		ArtworkID:    d.ArtworkID(),
		DescriptorID: d.DescriptorID(),
		Embedding:    Float64Slice(d.Embedding()),
		ImagePath:    d.ImagePath(),
	}
}

// ToDomain converts a database model to a domain descriptor.
func (DescriptorMapper) ToDomain(m DescriptorModel) catalog.Descriptor {
	d := catalog.NewDescriptor(m.ArtworkID, m.DescriptorID, m.Embedding)
	if m.ImagePath != "" {
		d = d.WithImagePath(m.ImagePath)
	}
	return d
}
