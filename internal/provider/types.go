package provider

import (
	"context"

	"philcali.me/foodgram/internal/data"
)

// RecipeAPI holds the four membership calls the collection toggles through.
// A nil acknowledgment with a nil error means the server answered with an
// empty body.
type RecipeAPI interface {
	AddToFavorites(ctx context.Context, id int) (*data.MinifiedRecipe, error)
	RemoveFromFavorites(ctx context.Context, id int) (*data.MinifiedRecipe, error)
	AddToOrders(ctx context.Context, id int) (*data.MinifiedRecipe, error)
	RemoveFromOrders(ctx context.Context, id int) (*data.MinifiedRecipe, error)
}

type RecipeLister interface {
	ListRecipes(ctx context.Context, params data.PageParams) (data.QueryResults[data.Recipe], error)
	ListTags(ctx context.Context) ([]data.Tag, error)
}
