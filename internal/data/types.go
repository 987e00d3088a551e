package data

import (
	"net/url"
	"strconv"
)

const DefaultPageSize = 10

type PageParams struct {
	Page             int
	Limit            int
	Tags             []string
	Author           *int
	IsFavorited      bool
	IsInShoppingCart bool
}

func (p *PageParams) GetPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

func (p *PageParams) GetLimit() int {
	if p.Limit <= 0 || p.Limit > 100 {
		return DefaultPageSize
	}
	return p.Limit
}

func (p *PageParams) Values() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(p.GetPage()))
	values.Set("limit", strconv.Itoa(p.GetLimit()))
	for _, tag := range p.Tags {
		values.Add("tags", tag)
	}
	if p.Author != nil {
		values.Set("author", strconv.Itoa(*p.Author))
	}
	if p.IsFavorited {
		values.Set("is_favorited", "1")
	}
	if p.IsInShoppingCart {
		values.Set("is_in_shopping_cart", "1")
	}
	return values
}

type QueryResults[T interface{}] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Items    []T     `json:"results"`
}
