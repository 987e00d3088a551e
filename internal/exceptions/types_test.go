package exceptions

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	t.Run("Rejection", func(t *testing.T) {
		messages, ok := Messages(fmt.Errorf("add favorite: %w", Rejection(400, "A", "B")))
		assert.True(t, ok)
		assert.Equal(t, []string{"A", "B"}, messages)
	})

	t.Run("RejectionWithoutMessages", func(t *testing.T) {
		_, ok := Messages(Rejection(500))
		assert.False(t, ok)
	})

	t.Run("Other", func(t *testing.T) {
		_, ok := Messages(errors.New("connection refused"))
		assert.False(t, ok)
	})
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 404, StatusCode(NotFound("recipe", "7")))
	assert.Equal(t, 400, StatusCode(fmt.Errorf("wrapped: %w", InvalidInput("bad"))))
	assert.Equal(t, 401, StatusCode(Rejection(401, "Invalid token.")))
	assert.Equal(t, 404, StatusCode(&ServiceError{StatusCode: 404, Cause: errors.New("gone")}))
	assert.Equal(t, 500, StatusCode(errors.New("boom")))
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "A\nB", Rejection(400, "A", "B").Error())
	assert.Equal(t, "request rejected with status 502", Rejection(502).Error())
	assert.Equal(t, "Unexpected response from the API for favorite on recipe 3", UnexpectedResponse("favorite", 3).Error())

	cause := errors.New("context canceled")
	detached := Detached("cart", 4, cause)
	assert.ErrorIs(t, detached, cause)
	assert.Equal(t, "cart on recipe 4 discarded: collection closed", Detached("cart", 4, nil).Error())
}
