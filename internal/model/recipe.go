package model

// Recipe represents a saved recipe.
//
// Unlike User, the primary key is NOT a surrogate — it's the string id the
// upstream recipe API assigned (e.g. an Edamam URI fragment). Recipes are
// created on first reference and never updated or deleted; many users can
// hold the same recipe through the recipes_users join table.
type Recipe struct {
	ID          string   `json:"recipeId"    db:"recipe_id"`
	Label       string   `json:"label"       db:"label"`
	Image       string   `json:"image"       db:"image"`
	Ingredients []string `json:"ingredients" db:"ingredients"`
	URL         string   `json:"url"         db:"url"`
}
