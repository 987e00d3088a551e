package tags

import (
	"context"
	"sync"

	"philcali.me/foodgram/internal/data"
	"philcali.me/foodgram/internal/provider"
)

// Filter is the tag selection shown next to a recipe listing. Value on each
// tag reports whether it is selected.
type Filter struct {
	mutex sync.RWMutex
	value []data.Tag
}

func NewFilter(tags []data.Tag) *Filter {
	f := &Filter{}
	f.SetValue(tags)
	return f
}

// Load fetches every tag and selects all of them.
func Load(ctx context.Context, lister provider.RecipeLister) (*Filter, error) {
	tags, err := lister.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		tags[i].Value = true
	}
	return NewFilter(tags), nil
}

func (f *Filter) Value() []data.Tag {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return append([]data.Tag(nil), f.value...)
}

func (f *Filter) SetValue(tags []data.Tag) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.value = append([]data.Tag(nil), tags...)
}

// HandleChange flips the selection of the tag with the given slug. Unknown
// slugs are ignored.
func (f *Filter) HandleChange(slug string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for i := range f.value {
		if f.value[i].Slug == slug {
			f.value[i].Value = !f.value[i].Value
		}
	}
}

func (f *Filter) Selected() []string {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	var slugs []string
	for _, tag := range f.value {
		if tag.Value {
			slugs = append(slugs, tag.Slug)
		}
	}
	return slugs
}
