package domain

// Product is a read-only catalog entry. Price is kept as the display string
// the shop publishes (e.g. "$5.000"); amounts are derived with price.Parse.
type Product struct {
	ID           int      `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Slug         string   `json:"slug" yaml:"slug"`
	Price        string   `json:"price" yaml:"price"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Material     string   `json:"material,omitempty" yaml:"material"`
	Capacity     string   `json:"capacity,omitempty" yaml:"capacity"`
	Origin       string   `json:"origin,omitempty" yaml:"origin"`
	Availability string   `json:"availability,omitempty" yaml:"availability"`
	MainImage    string   `json:"mainImage,omitempty" yaml:"main_image"`
	Thumbnails   []string `json:"thumbnails,omitempty" yaml:"thumbnails"`
}
