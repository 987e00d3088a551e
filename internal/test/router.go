package test

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"philcali.me/foodgram/internal/exceptions"
)

type paramsKey struct{}

type Route func(w http.ResponseWriter, r *http.Request)

type CachedMatcher struct {
	Matcher    *regexp.Regexp
	ParamNames []string
	Mutex      *sync.Mutex
}

type CachedRoute struct {
	Method  string
	Path    string
	Route   Route
	Matcher *CachedMatcher
}

func (cr *CachedMatcher) Refresh(path string) *regexp.Regexp {
	cr.Mutex.Lock()
	defer cr.Mutex.Unlock()
	if cr.Matcher == nil {
		namex := regexp.MustCompile(":[^/]+")
		regexPath := namex.ReplaceAllStringFunc(path, func(found string) string {
			cr.ParamNames = append(cr.ParamNames, found[1:])
			return "([^/]+)"
		})
		cr.Matcher = regexp.MustCompile("^" + regexPath + "$")
	}
	return cr.Matcher
}

func (cr *CachedRoute) MatchRequest(r *http.Request) (map[string]string, bool) {
	if r.Method != cr.Method {
		return nil, false
	}
	if r.URL.Path == cr.Path {
		return map[string]string{}, true
	}
	matcher := cr.Matcher.Refresh(cr.Path)
	values := matcher.FindStringSubmatch(r.URL.Path)
	if values == nil {
		return nil, false
	}
	params := make(map[string]string, len(cr.Matcher.ParamNames))
	for i, p := range cr.Matcher.ParamNames {
		params[p] = values[i+1]
	}
	return params, true
}

// Router dispatches on "METHOD:/path/:param" keys.
type Router struct {
	Routes []CachedRoute
}

func NewRouter(table map[string]Route) *Router {
	var routes []CachedRoute
	for composite, route := range table {
		parts := strings.SplitN(composite, ":", 2)
		routes = append(routes, CachedRoute{
			Method: parts[0],
			Path:   parts[1],
			Route:  route,
			Matcher: &CachedMatcher{
				Mutex: &sync.Mutex{},
			},
		})
	}
	return &Router{Routes: routes}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, route := range rt.Routes {
		if params, ok := route.MatchRequest(r); ok {
			route.Route(w, r.WithContext(context.WithValue(r.Context(), paramsKey{}, params)))
			return
		}
	}
	WriteError(w, exceptions.NotFound("route", r.Method+" "+r.URL.Path))
}

func RequestParam(r *http.Request, name string) string {
	if params, ok := r.Context().Value(paramsKey{}).(map[string]string); ok {
		return params[name]
	}
	return ""
}
