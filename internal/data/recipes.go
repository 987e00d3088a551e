package data

type Tag struct {
	Id    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
	Value bool   `json:"-"`
}

type Author struct {
	Id           int    `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar,omitempty"`
}

type RecipeIngredient struct {
	Id              int    `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// Recipe is a single entry of a recipe listing. Only the identifier and the two
// membership flags are interpreted on the client; the rest is display data.
type Recipe struct {
	Id             int                `json:"id"`
	Name           string             `json:"name"`
	Image          string             `json:"image"`
	Text           string             `json:"text"`
	CookingTime    int                `json:"cooking_time"`
	Author         *Author            `json:"author,omitempty"`
	Tags           []Tag              `json:"tags"`
	Ingredients    []RecipeIngredient `json:"ingredients"`
	IsFavorited    bool               `json:"is_favorited"`
	InShoppingCart bool               `json:"is_in_shopping_cart"`
}

// Clone copies the slices so the returned value shares nothing with r.
func (r Recipe) Clone() Recipe {
	c := r
	if r.Author != nil {
		author := *r.Author
		c.Author = &author
	}
	if r.Tags != nil {
		c.Tags = append([]Tag(nil), r.Tags...)
	}
	if r.Ingredients != nil {
		c.Ingredients = append([]RecipeIngredient(nil), r.Ingredients...)
	}
	return c
}

// MinifiedRecipe is the acknowledgment body returned by the add endpoints.
type MinifiedRecipe struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}
