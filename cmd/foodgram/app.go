package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"philcali.me/foodgram/internal/collection"
	"philcali.me/foodgram/internal/config"
	"philcali.me/foodgram/internal/exceptions"
	"philcali.me/foodgram/internal/foodgram"
	"philcali.me/foodgram/internal/logging"
	"philcali.me/foodgram/internal/metrics"
	"philcali.me/foodgram/internal/notifications"
	"philcali.me/foodgram/internal/sns/services"
	"philcali.me/foodgram/internal/tags"
)

type App struct {
	Config     config.Config
	Logger     zerolog.Logger
	Client     foodgram.Client
	Filter     *tags.Filter
	Registry   *prometheus.Registry
	Collection *collection.Controller
}

func newNotifications(ctx context.Context, cfg config.NotificationConfig, out io.Writer) (notifications.NotificationService, error) {
	console := &notifications.ConsoleNotifications{Out: out}
	if cfg.TopicArn == "" {
		return console, nil
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: cfg.Endpoint}, nil
			})))
	}
	if cfg.AccessKeyId != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyId, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return notifications.MultiNotifications{
		console,
		&services.NotificationSNSService{
			Sns:      sns.NewFromConfig(awsCfg),
			TopicArn: cfg.TopicArn,
		},
	}, nil
}

func NewApp(ctx context.Context, cfg config.Config, out io.Writer) (*App, error) {
	logger := logging.New("foodgram", cfg.LogLevel, nil)
	client := foodgram.NewClient(cfg.BaseURL, cfg.Token, &http.Client{Timeout: cfg.Timeout()}, logger)
	notifier, err := newNotifications(ctx, cfg.Notifications, out)
	if err != nil {
		return nil, err
	}
	filter := tags.NewFilter(nil)
	registry := prometheus.NewRegistry()
	return &App{
		Config:   cfg,
		Logger:   logger,
		Client:   client,
		Filter:   filter,
		Registry: registry,
		Collection: collection.New(filter, client,
			collection.WithLogger(logger),
			collection.WithNotifications(notifier),
			collection.WithMetrics(metrics.NewRecorder(registry)),
		),
	}, nil
}

// LoadTags replaces the filter with the server's tags, selecting only the
// given slugs, or every tag when none are given.
func (app *App) LoadTags(ctx context.Context, selected []string) error {
	loaded, err := tags.Load(ctx, app.Client)
	if err != nil {
		return err
	}
	value := loaded.Value()
	if len(selected) > 0 {
		known := make(map[string]bool, len(value))
		for _, tag := range value {
			known[tag.Slug] = true
		}
		wanted := make(map[string]bool, len(selected))
		for _, slug := range selected {
			if !known[slug] {
				return exceptions.InvalidInput(fmt.Sprintf("unknown tag %q", slug))
			}
			wanted[slug] = true
		}
		for i := range value {
			value[i].Value = wanted[value[i].Slug]
		}
	}
	app.Collection.SetTagsValue(value)
	return nil
}

// Finish detaches the controller and, when path is set, writes the toggle
// metrics in Prometheus text format.
func (app *App) Finish(path string) error {
	app.Collection.Close()
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, app.Registry)
}
