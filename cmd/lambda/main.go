package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"optionsdesk/internal/app"
	"optionsdesk/internal/config"
	"optionsdesk/internal/handler"
)

var responseHeaders = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
}

func newLambdaHandler(h *handler.AnalysisHandler) func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		body, err := json.Marshal(h.Analyze(ctx))
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}

		return events.APIGatewayV2HTTPResponse{
			StatusCode: 200,
			Headers:    responseHeaders,
			Body:       string(body),
		}, nil
	}
}

func main() {
	godotenv.Load()

	cfg := config.Load()
	app.SetupLogging(cfg)

	service, err := app.NewService(cfg)
	if err != nil {
		log.Fatalf("error configuring analysis pipeline: %v", err)
	}

	lambda.Start(newLambdaHandler(handler.NewAnalysisHandler(service, cfg.Validate)))
}
