package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"philcali.me/foodgram/internal/notifications"
)

type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type NotificationSNSService struct {
	Sns      Publisher
	TopicArn string
}

type noticeMessage struct {
	Operation string   `json:"operation"`
	RecipeId  int      `json:"recipeId"`
	Messages  []string `json:"messages"`
	Text      string   `json:"text"`
}

func (n *NotificationSNSService) Notify(ctx context.Context, notice notifications.Notice) error {
	body, err := json.Marshal(noticeMessage{
		Operation: notice.Operation,
		RecipeId:  notice.RecipeId,
		Messages:  notice.Messages,
		Text:      notice.Text(),
	})
	if err != nil {
		return err
	}
	_, err = n.Sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.TopicArn),
		Subject:  aws.String("Foodgram " + notice.Operation + " failed"),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"operation": {
				DataType:    aws.String("String"),
				StringValue: aws.String(notice.Operation),
			},
			"recipeId": {
				DataType:    aws.String("Number"),
				StringValue: aws.String(strconv.Itoa(notice.RecipeId)),
			},
		},
	})
	return err
}
