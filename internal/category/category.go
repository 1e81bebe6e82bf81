package category

// Category is the public DTO returned by the category API.
type Category struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
	Ord   int     `json:"ord"`
}
