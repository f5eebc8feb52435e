package lambdahandler

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

// WithCORS invokes h and merges fixed cross-origin headers over its response
// headers. Status code and body are left as h returned them. The credentials
// header is omitted for the wildcard origin, which browsers reject with it.
func WithCORS(origin string, h Handler) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		resp, err := h(ctx, req)
		if err != nil {
			return resp, err
		}
		headers := make(map[string]string, len(resp.Headers)+3)
		for k, v := range resp.Headers {
			headers[k] = v
		}
		headers["Access-Control-Allow-Origin"] = origin
		if origin != "*" {
			headers["Access-Control-Allow-Credentials"] = "true"
		}
		headers["Content-Type"] = "application/json"
		resp.Headers = headers
		return resp, nil
	}
}
