package collection

import (
	"context"

	"philcali.me/foodgram/internal/data"
	"philcali.me/foodgram/internal/provider"
)

// LoadPage fetches one page of recipes for the selected tags and hands it to
// the controller through its setters. Nothing is written on error.
func LoadPage(ctx context.Context, c *Controller, lister provider.RecipeLister, params data.PageParams) error {
	if params.Tags == nil {
		for _, tag := range c.TagsValue() {
			if tag.Value {
				params.Tags = append(params.Tags, tag.Slug)
			}
		}
	}
	results, err := lister.ListRecipes(ctx, params)
	if err != nil {
		return err
	}
	if err := c.SetRecipes(results.Items); err != nil {
		return err
	}
	c.SetCount(results.Count)
	c.SetPage(params.GetPage())
	return nil
}
