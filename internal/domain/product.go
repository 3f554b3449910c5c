package domain

// Product rows keep list-valued fields (images, tags, materials) and the
// dimensions/weight blobs as JSON text columns.
type Product struct {
	ID             string  `db:"id" json:"id"`
	SellerID       string  `db:"seller_id" json:"sellerId"`
	CategoryID     string  `db:"category_id" json:"categoryId"`
	Name           string  `db:"name" json:"name"`
	Description    string  `db:"description" json:"description"`
	Price          float64 `db:"price" json:"price"`
	ImagesJSON     string  `db:"images_json" json:"images"`
	Stock          int     `db:"stock" json:"countInStock"`
	CraftType      string  `db:"craft_type" json:"craftType"`
	Region         string  `db:"region" json:"region"`
	TagsJSON       string  `db:"tags_json" json:"tags"`
	MaterialsJSON  string  `db:"materials_json" json:"materials"`
	DimensionsJSON string  `db:"dimensions_json" json:"dimensions,omitempty"`
	WeightJSON     string  `db:"weight_json" json:"weight,omitempty"`
	Rating         float64 `db:"rating" json:"rating"`
	NumReviews     int     `db:"num_reviews" json:"numReviews"`
	IsFeatured     bool    `db:"is_featured" json:"isFeatured"`
	IsActive       bool    `db:"is_active" json:"isActive"`
	CreatedAt      string  `db:"created_at" json:"createdAt"`
	UpdatedAt      string  `db:"updated_at" json:"updatedAt,omitempty"`
}

type Category struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Image       string `db:"image" json:"image,omitempty"`
	ParentID    string `db:"parent_id" json:"parentCategory,omitempty"`
	IsActive    bool   `db:"is_active" json:"isActive"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
	UpdatedAt   string `db:"updated_at" json:"updatedAt,omitempty"`
}
