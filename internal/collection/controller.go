// Package collection keeps the recipe listing a view renders and reconciles it
// with the API after favorite and shopping cart toggles.
package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
	"philcali.me/foodgram/internal/data"
	"philcali.me/foodgram/internal/exceptions"
	"philcali.me/foodgram/internal/metrics"
	"philcali.me/foodgram/internal/notifications"
	"philcali.me/foodgram/internal/provider"
	"philcali.me/foodgram/internal/tags"
)

const (
	OperationFavorite = "favorite"
	OperationCart     = "cart"
)

var genericMessages = map[string]string{
	OperationFavorite: "Failed to update favorites",
	OperationCart:     "Failed to update shopping cart",
}

type Option func(*Controller)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithNotifications surfaces every failed toggle as exactly one notice.
func WithNotifications(notifier notifications.NotificationService) Option {
	return func(c *Controller) {
		c.notifier = notifier
	}
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(c *Controller) {
		c.metrics = recorder
	}
}

// Controller owns the recipe sequence, the total count and the current page of
// a listing. Toggles only ever rewrite a flag on the matching record; length
// and order of the sequence are left to SetRecipes.
type Controller struct {
	api      provider.RecipeAPI
	filter   *tags.Filter
	logger   zerolog.Logger
	notifier notifications.NotificationService
	metrics  *metrics.Recorder

	mutex   sync.Mutex
	recipes []data.Recipe
	count   int
	page    int
	closed  bool
}

func New(filter *tags.Filter, api provider.RecipeAPI, opts ...Option) *Controller {
	if filter == nil {
		filter = tags.NewFilter(nil)
	}
	c := &Controller{
		api:     api,
		filter:  filter,
		logger:  zerolog.Nop(),
		recipes: make([]data.Recipe, 0),
		page:    1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Recipes() []data.Recipe {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	recipes := make([]data.Recipe, len(c.recipes))
	for i, recipe := range c.recipes {
		recipes[i] = recipe.Clone()
	}
	return recipes
}

func (c *Controller) SetRecipes(recipes []data.Recipe) error {
	seen := make(map[int]bool, len(recipes))
	copied := make([]data.Recipe, len(recipes))
	for i, recipe := range recipes {
		if seen[recipe.Id] {
			return exceptions.InvalidInput(fmt.Sprintf("duplicate recipe id %d", recipe.Id))
		}
		seen[recipe.Id] = true
		copied[i] = recipe.Clone()
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.recipes = copied
	return nil
}

func (c *Controller) Count() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.count
}

func (c *Controller) SetCount(count int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.count = count
}

func (c *Controller) Page() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.page
}

// SetPage stores a 1-based page number; anything lower becomes 1.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.page = page
}

func (c *Controller) TagsValue() []data.Tag {
	return c.filter.Value()
}

func (c *Controller) HandleTagsChange(slug string) {
	c.filter.HandleChange(slug)
}

func (c *Controller) SetTagsValue(value []data.Tag) {
	c.filter.SetValue(value)
}

// Close detaches the controller from its view. Responses landing afterwards
// are discarded.
func (c *Controller) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.closed = true
}

func (c *Controller) Closed() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.closed
}

// ToggleFavorite adds (desired true) or removes the recipe from favorites and
// rewrites IsFavorited on the matching record once the API acknowledges it.
// The returned record is nil when id is not part of the listing.
func (c *Controller) ToggleFavorite(ctx context.Context, id int, desired bool) (*data.Recipe, error) {
	call := c.api.RemoveFromFavorites
	if desired {
		call = c.api.AddToFavorites
	}
	start := time.Now()
	ack, err := call(ctx, id)
	if err == nil && ack == nil {
		err = exceptions.UnexpectedResponse(OperationFavorite, id)
	}
	if err != nil {
		return nil, c.fail(ctx, OperationFavorite, id, desired, start, err)
	}
	return c.apply(ctx, OperationFavorite, id, desired, start, func(recipe *data.Recipe) {
		recipe.IsFavorited = desired
	}, nil)
}

// ToggleCart adds (desired true) or removes the recipe from the shopping cart.
// Any successful answer is taken as confirmation. onDone, when given, runs with
// desired after the listing has been updated.
func (c *Controller) ToggleCart(ctx context.Context, id int, desired bool, onDone func(bool)) (*data.Recipe, error) {
	call := c.api.RemoveFromOrders
	if desired {
		call = c.api.AddToOrders
	}
	start := time.Now()
	if _, err := call(ctx, id); err != nil {
		return nil, c.fail(ctx, OperationCart, id, desired, start, err)
	}
	return c.apply(ctx, OperationCart, id, desired, start, func(recipe *data.Recipe) {
		recipe.InShoppingCart = desired
	}, onDone)
}

func (c *Controller) AddToCart(ctx context.Context, id int) (*data.Recipe, error) {
	return c.ToggleCart(ctx, id, true, nil)
}

func (c *Controller) apply(ctx context.Context, operation string, id int, desired bool, start time.Time, rewrite func(*data.Recipe), onDone func(bool)) (*data.Recipe, error) {
	c.mutex.Lock()
	if c.closed || ctx.Err() != nil {
		c.mutex.Unlock()
		return nil, c.detach(operation, id, desired, start, ctx.Err())
	}
	var updated *data.Recipe
	index := slices.IndexFunc(c.recipes, func(recipe data.Recipe) bool {
		return recipe.Id == id
	})
	if index >= 0 {
		rewrite(&c.recipes[index])
		recipe := c.recipes[index].Clone()
		updated = &recipe
	}
	c.mutex.Unlock()

	outcome := metrics.OutcomeApplied
	if updated == nil {
		outcome = metrics.OutcomeMissing
	}
	c.metrics.RecordToggle(operation, desired, outcome, time.Since(start))
	c.logger.Debug().
		Str("operation", operation).
		Int("recipeId", id).
		Bool("desired", desired).
		Str("outcome", outcome).
		Msg("toggle confirmed")
	if onDone != nil {
		onDone(desired)
	}
	return updated, nil
}

func (c *Controller) detach(operation string, id int, desired bool, start time.Time, cause error) error {
	c.metrics.RecordToggle(operation, desired, metrics.OutcomeDetached, time.Since(start))
	c.logger.Debug().
		Str("operation", operation).
		Int("recipeId", id).
		Bool("desired", desired).
		AnErr("cause", cause).
		Msg("toggle discarded")
	return exceptions.Detached(operation, id, cause)
}

func (c *Controller) fail(ctx context.Context, operation string, id int, desired bool, start time.Time, err error) error {
	if ctx.Err() != nil || c.Closed() {
		return c.detach(operation, id, desired, start, err)
	}
	outcome := metrics.OutcomeFailed
	messages, rejected := exceptions.Messages(err)
	var unexpected *exceptions.UnexpectedResponseError
	switch {
	case rejected:
		outcome = metrics.OutcomeRejected
	case errors.As(err, &unexpected):
		outcome = metrics.OutcomeUnexpected
	}
	c.metrics.RecordToggle(operation, desired, outcome, time.Since(start))
	c.logger.Warn().
		Err(err).
		Str("operation", operation).
		Int("recipeId", id).
		Bool("desired", desired).
		Str("outcome", outcome).
		Msg("toggle failed")
	if c.notifier == nil {
		return err
	}
	if !rejected {
		messages = []string{genericMessages[operation]}
	}
	notice := notifications.Notice{
		Operation: operation,
		RecipeId:  id,
		Messages:  messages,
	}
	if nerr := c.notifier.Notify(ctx, notice); nerr != nil {
		c.logger.Warn().Err(nerr).Str("operation", operation).Int("recipeId", id).Msg("notice not delivered")
	}
	return err
}
