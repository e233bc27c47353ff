// Package main serves the quiz API from AWS Lambda behind API Gateway.
//
// Warm instances do not share memory, so in-progress sessions must live in
// Redis: startup fails when redis.addr is unset.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/saulo-duarte/scent-quiz/internal/config"
	"github.com/saulo-duarte/scent-quiz/internal/container"
	"github.com/saulo-duarte/scent-quiz/internal/router"
)

var adapter *chiadapter.ChiLambda

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	ctx := context.Background()
	log := config.WithContext(ctx)

	settings, err := config.Load(os.Getenv("SCENTQUIZ_CONFIG"))
	if err != nil {
		log.WithError(err).Fatal("Failed to load settings")
	}
	if err := settings.RequireSharedState(); err != nil {
		log.WithError(err).Fatal("Invalid Lambda settings")
	}

	// Container and pool survive across warm invocations.
	c, err := container.New(ctx, settings)
	if err != nil {
		log.WithError(err).Fatal("Failed to build container")
	}

	adapter = chiadapter.New(router.New(c.RouterConfig()))
	lambda.Start(handler)
}
