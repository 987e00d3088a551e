package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"philcali.me/foodgram/internal/data"
	"philcali.me/foodgram/internal/exceptions"
)

// Response replaces the handler of a route for every following request.
type Response struct {
	StatusCode int
	Body       string
}

type Request struct {
	Method        string
	Path          string
	Query         url.Values
	RequestId     string
	Authorization string
}

// FakeFoodgram serves the subset of the Foodgram REST API the client uses.
type FakeFoodgram struct {
	Server *httptest.Server

	mutex     sync.Mutex
	favorites map[int]bool
	cart      map[int]bool
	recipes   []data.Recipe
	tags      []data.Tag
	overrides map[string]Response
	gates     map[string]chan struct{}
	requests  []Request
}

func NewFakeFoodgram(t *testing.T, recipes []data.Recipe, tags []data.Tag) *FakeFoodgram {
	ff := &FakeFoodgram{
		favorites: make(map[int]bool),
		cart:      make(map[int]bool),
		recipes:   recipes,
		tags:      tags,
		overrides: make(map[string]Response),
		gates:     make(map[string]chan struct{}),
	}
	for _, recipe := range recipes {
		if recipe.IsFavorited {
			ff.favorites[recipe.Id] = true
		}
		if recipe.InShoppingCart {
			ff.cart[recipe.Id] = true
		}
	}
	router := NewRouter(map[string]Route{
		"GET:/api/recipes/":                     ff.listRecipes,
		"GET:/api/tags/":                        ff.listTags,
		"POST:/api/favorites/add/:id/":          ff.add(ff.favorites, "Recipe already in favorites!"),
		"DELETE:/api/favorites/remove/:id/":     ff.remove(ff.favorites),
		"POST:/api/shopping-list/add/:id/":      ff.add(ff.cart, "Recipe already in shopping list!"),
		"DELETE:/api/shopping-list/remove/:id/": ff.remove(ff.cart),
	})
	ff.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + ":" + r.URL.Path
		ff.mutex.Lock()
		ff.requests = append(ff.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			RequestId:     r.Header.Get("X-Request-Id"),
			Authorization: r.Header.Get("Authorization"),
		})
		override, overridden := ff.overrides[key]
		gate := ff.gates[key]
		ff.mutex.Unlock()
		if gate != nil {
			<-gate
		}
		if overridden {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(override.StatusCode)
			w.Write([]byte(override.Body))
			return
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(ff.Server.Close)
	return ff
}

func (ff *FakeFoodgram) URL() string {
	return ff.Server.URL
}

// Override answers method+path with a canned response.
func (ff *FakeFoodgram) Override(method string, path string, response Response) {
	ff.mutex.Lock()
	defer ff.mutex.Unlock()
	ff.overrides[method+":"+path] = response
}

// Hold blocks requests on method+path until the returned release is called.
func (ff *FakeFoodgram) Hold(method string, path string) (release func()) {
	gate := make(chan struct{})
	ff.mutex.Lock()
	ff.gates[method+":"+path] = gate
	ff.mutex.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(gate)
		})
	}
}

func (ff *FakeFoodgram) Requests() []Request {
	ff.mutex.Lock()
	defer ff.mutex.Unlock()
	return append([]Request(nil), ff.requests...)
}

func (ff *FakeFoodgram) IsFavorite(id int) bool {
	ff.mutex.Lock()
	defer ff.mutex.Unlock()
	return ff.favorites[id]
}

func (ff *FakeFoodgram) InCart(id int) bool {
	ff.mutex.Lock()
	defer ff.mutex.Unlock()
	return ff.cart[id]
}

func (ff *FakeFoodgram) find(id int) (data.Recipe, bool) {
	for _, recipe := range ff.recipes {
		if recipe.Id == id {
			return recipe, true
		}
	}
	return data.Recipe{}, false
}

func (ff *FakeFoodgram) add(set map[int]bool, duplicate string) Route {
	return func(w http.ResponseWriter, r *http.Request) {
		param := RequestParam(r, "id")
		id, err := strconv.Atoi(param)
		ff.mutex.Lock()
		defer ff.mutex.Unlock()
		recipe, found := ff.find(id)
		if err != nil || !found {
			WriteError(w, exceptions.NotFound("recipe", param))
			return
		}
		if set[id] {
			WriteError(w, exceptions.InvalidInput(duplicate))
			return
		}
		set[id] = true
		WriteJSON(w, http.StatusCreated, data.MinifiedRecipe{
			Id:          recipe.Id,
			Name:        recipe.Name,
			Image:       recipe.Image,
			CookingTime: recipe.CookingTime,
		})
	}
}

func (ff *FakeFoodgram) remove(set map[int]bool) Route {
	return func(w http.ResponseWriter, r *http.Request) {
		param := RequestParam(r, "id")
		id, err := strconv.Atoi(param)
		ff.mutex.Lock()
		defer ff.mutex.Unlock()
		if err != nil || !set[id] {
			WriteError(w, exceptions.NotFound("recipe", param))
			return
		}
		delete(set, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func _hasTag(recipe data.Recipe, slugs []string) bool {
	if len(slugs) == 0 {
		return true
	}
	for _, tag := range recipe.Tags {
		for _, slug := range slugs {
			if tag.Slug == slug {
				return true
			}
		}
	}
	return false
}

func (ff *FakeFoodgram) listRecipes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 {
		limit = data.DefaultPageSize
	}
	ff.mutex.Lock()
	defer ff.mutex.Unlock()
	var matched []data.Recipe
	for _, recipe := range ff.recipes {
		if !_hasTag(recipe, query["tags"]) {
			continue
		}
		if query.Get("is_favorited") == "1" && !ff.favorites[recipe.Id] {
			continue
		}
		if query.Get("is_in_shopping_cart") == "1" && !ff.cart[recipe.Id] {
			continue
		}
		if author := query.Get("author"); author != "" && (recipe.Author == nil || strconv.Itoa(recipe.Author.Id) != author) {
			continue
		}
		recipe.IsFavorited = ff.favorites[recipe.Id]
		recipe.InShoppingCart = ff.cart[recipe.Id]
		matched = append(matched, recipe)
	}
	start := (page - 1) * limit
	if start > len(matched) {
		WriteError(w, exceptions.NotFound("page", strconv.Itoa(page)))
		return
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	results := data.QueryResults[data.Recipe]{
		Count: len(matched),
		Items: append(make([]data.Recipe, 0), matched[start:end]...),
	}
	if end < len(matched) {
		next := fmt.Sprintf("%s/api/recipes/?page=%d&limit=%d", ff.Server.URL, page+1, limit)
		results.Next = &next
	}
	if page > 1 {
		previous := fmt.Sprintf("%s/api/recipes/?page=%d&limit=%d", ff.Server.URL, page-1, limit)
		results.Previous = &previous
	}
	WriteJSON(w, http.StatusOK, results)
}

func (ff *FakeFoodgram) listTags(w http.ResponseWriter, r *http.Request) {
	ff.mutex.Lock()
	defer ff.mutex.Unlock()
	WriteJSON(w, http.StatusOK, ff.tags)
}

// WriteError answers with the status err maps to and its text as the detail.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, exceptions.StatusCode(err), map[string]string{"detail": err.Error()})
}

func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(statusCode)
	w.Write(payload)
}

// SampleRecipes builds n recipes with ids 1..n, alternating breakfast and
// dinner tags.
func SampleRecipes(n int) []data.Recipe {
	breakfast := data.Tag{Id: 1, Name: "Breakfast", Slug: "breakfast"}
	dinner := data.Tag{Id: 2, Name: "Dinner", Slug: "dinner"}
	recipes := make([]data.Recipe, 0, n)
	for i := 1; i <= n; i++ {
		tag := breakfast
		if i%2 == 0 {
			tag = dinner
		}
		recipes = append(recipes, data.Recipe{
			Id:          i,
			Name:        fmt.Sprintf("Recipe %d", i),
			Image:       fmt.Sprintf("/media/recipes/%d.png", i),
			CookingTime: 10 * i,
			Author:      &data.Author{Id: 1 + i%2, Username: "cook"},
			Tags:        []data.Tag{tag},
		})
	}
	return recipes
}

func SampleTags() []data.Tag {
	return []data.Tag{
		{Id: 1, Name: "Breakfast", Slug: "breakfast"},
		{Id: 2, Name: "Dinner", Slug: "dinner"},
		{Id: 3, Name: "Lunch", Slug: "lunch"},
	}
}
