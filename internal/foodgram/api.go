package foodgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"philcali.me/foodgram/internal/data"
	"philcali.me/foodgram/internal/exceptions"
	"philcali.me/foodgram/internal/provider"
)

const RequestIdHeader = "X-Request-Id"

type FoodgramAPI struct {
	BaseURL string
	Token   string
	Client  *http.Client
	Logger  zerolog.Logger
}

func _apiRequest(ctx context.Context, fa *FoodgramAPI, method string, resource string, params url.Values) ([]byte, error) {
	endpoint := strings.TrimRight(fa.BaseURL, "/") + "/api/" + resource
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	requestId := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIdHeader, requestId)
	if fa.Token != "" {
		req.Header.Set("Authorization", "Token "+fa.Token)
	}
	resp, err := fa.Client.Do(req)
	if err != nil {
		fa.Logger.Debug().Str("requestId", requestId).Str("method", method).Str("resource", resource).Err(err).Msg("request failed")
		return nil, fmt.Errorf("%s %s: %w", method, resource, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading body: %w", method, resource, err)
	}
	fa.Logger.Debug().
		Str("requestId", requestId).
		Str("method", method).
		Str("resource", resource).
		Int("status", resp.StatusCode).
		Msg("api_request")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, exceptions.Rejection(resp.StatusCode, _decodeMessages(body)...)
	}
	return body, nil
}

// _decodeMessages flattens the error payload shapes the API answers with:
// {"errors": [...]}, {"detail": "..."} or {"field": ["..."]}.
func _decodeMessages(body []byte) []string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(body, &list); err == nil {
		return list
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if raw, ok := payload["errors"]; ok {
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			return list
		}
	}
	if raw, ok := payload["detail"]; ok {
		var detail string
		if err := json.Unmarshal(raw, &detail); err == nil && detail != "" {
			return []string{detail}
		}
	}
	fields := maps.Keys(payload)
	slices.Sort(fields)
	var messages []string
	for _, field := range fields {
		var fieldMessages []string
		if err := json.Unmarshal(payload[field], &fieldMessages); err == nil {
			for _, message := range fieldMessages {
				messages = append(messages, field+": "+message)
			}
			continue
		}
		var message string
		if err := json.Unmarshal(payload[field], &message); err == nil {
			messages = append(messages, field+": "+message)
		}
	}
	return messages
}

func _acknowledge(ctx context.Context, fa *FoodgramAPI, method string, resource string) (*data.MinifiedRecipe, error) {
	body, err := _apiRequest(ctx, fa, method, resource, nil)
	if err != nil {
		return nil, err
	}
	if method == http.MethodDelete {
		return &data.MinifiedRecipe{}, nil
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	var ack data.MinifiedRecipe
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil, fmt.Errorf("%s %s: decoding body: %w", method, resource, err)
	}
	return &ack, nil
}

func _idResource(prefix string, id int) string {
	return prefix + strconv.Itoa(id) + "/"
}

func (fa *FoodgramAPI) AddToFavorites(ctx context.Context, id int) (*data.MinifiedRecipe, error) {
	return _acknowledge(ctx, fa, http.MethodPost, _idResource("favorites/add/", id))
}

func (fa *FoodgramAPI) RemoveFromFavorites(ctx context.Context, id int) (*data.MinifiedRecipe, error) {
	return _acknowledge(ctx, fa, http.MethodDelete, _idResource("favorites/remove/", id))
}

func (fa *FoodgramAPI) AddToOrders(ctx context.Context, id int) (*data.MinifiedRecipe, error) {
	return _acknowledge(ctx, fa, http.MethodPost, _idResource("shopping-list/add/", id))
}

func (fa *FoodgramAPI) RemoveFromOrders(ctx context.Context, id int) (*data.MinifiedRecipe, error) {
	return _acknowledge(ctx, fa, http.MethodDelete, _idResource("shopping-list/remove/", id))
}

func (fa *FoodgramAPI) ListRecipes(ctx context.Context, params data.PageParams) (data.QueryResults[data.Recipe], error) {
	body, err := _apiRequest(ctx, fa, http.MethodGet, "recipes/", params.Values())
	if err != nil {
		return data.QueryResults[data.Recipe]{}, err
	}
	var results data.QueryResults[data.Recipe]
	if err := json.Unmarshal(body, &results); err != nil {
		return data.QueryResults[data.Recipe]{}, fmt.Errorf("decoding recipes: %w", err)
	}
	if results.Items == nil {
		results.Items = make([]data.Recipe, 0)
	}
	return results, nil
}

func (fa *FoodgramAPI) ListTags(ctx context.Context) ([]data.Tag, error) {
	body, err := _apiRequest(ctx, fa, http.MethodGet, "tags/", nil)
	if err != nil {
		return nil, err
	}
	var tags []data.Tag
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	return tags, nil
}

type Client interface {
	provider.RecipeAPI
	provider.RecipeLister
}

func NewClient(baseURL string, token string, client *http.Client, logger zerolog.Logger) Client {
	if client == nil {
		client = &http.Client{}
	}
	return &FoodgramAPI{
		BaseURL: baseURL,
		Token:   token,
		Client:  client,
		Logger:  logger,
	}
}
