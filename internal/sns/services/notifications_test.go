package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/foodgram/internal/notifications"
)

type LocalPublisher struct {
	Inputs []*sns.PublishInput
	Err    error
}

func (lp *LocalPublisher) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if lp.Err != nil {
		return nil, lp.Err
	}
	lp.Inputs = append(lp.Inputs, params)
	return &sns.PublishOutput{MessageId: aws.String("message-1")}, nil
}

func TestNotificationSNSService(t *testing.T) {
	notice := notifications.Notice{
		Operation: "favorite",
		RecipeId:  12,
		Messages:  []string{"A", "B"},
	}

	t.Run("Publish", func(t *testing.T) {
		publisher := &LocalPublisher{}
		service := &NotificationSNSService{Sns: publisher, TopicArn: "arn:aws:sns:us-east-1:012345678912:foodgram"}
		require.NoError(t, service.Notify(context.Background(), notice))
		require.Len(t, publisher.Inputs, 1)

		input := publisher.Inputs[0]
		assert.Equal(t, "arn:aws:sns:us-east-1:012345678912:foodgram", *input.TopicArn)
		assert.Equal(t, "Foodgram favorite failed", *input.Subject)
		assert.Equal(t, "12", *input.MessageAttributes["recipeId"].StringValue)

		var message map[string]any
		require.NoError(t, json.Unmarshal([]byte(*input.Message), &message))
		assert.Equal(t, "A\nB", message["text"])
		assert.Equal(t, "favorite", message["operation"])
	})

	t.Run("PublishFailure", func(t *testing.T) {
		cause := errors.New("throttled")
		service := &NotificationSNSService{Sns: &LocalPublisher{Err: cause}, TopicArn: "arn"}
		assert.ErrorIs(t, service.Notify(context.Background(), notice), cause)
	})
}
