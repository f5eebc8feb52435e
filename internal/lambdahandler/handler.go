// Package lambdahandler adapts the todo service to API Gateway proxy
// integrations. The gateway's Cognito authorizer validates the bearer token;
// handlers only read the resulting subject claim.
package lambdahandler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"todo-app/internal/models"
	"todo-app/internal/service"
	apperrors "todo-app/pkg/errors"
	"todo-app/pkg/logger"

	"github.com/aws/aws-lambda-go/events"
)

// Operations selectable with TODO_OPERATION.
const (
	OpCreate = "create"
	OpList   = "list"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Handler is an API Gateway proxy handler.
type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// ForOperation returns the CORS-decorated handler for op.
func ForOperation(op string, svc *service.Service, origin string) (Handler, error) {
	var h Handler
	switch op {
	case OpCreate:
		h = Create(svc)
	case OpList:
		h = List(svc)
	case OpUpdate:
		h = Update(svc)
	case OpDelete:
		h = Delete(svc)
	default:
		return nil, fmt.Errorf("unknown TODO_OPERATION %q", op)
	}
	return WithCORS(origin, h), nil
}

// Identity returns the subject claim injected by the Cognito authorizer.
func Identity(req events.APIGatewayProxyRequest) string {
	claims, ok := req.RequestContext.Authorizer["claims"].(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}

func decodeBody(req events.APIGatewayProxyRequest, dst any) error {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return apperrors.Invalid("lambdahandler.decodeBody", "Invalid request body")
		}
		body = b
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.Invalid("lambdahandler.decodeBody", "Invalid request body")
	}
	return nil
}

func respond(status int, v any) (events.APIGatewayProxyResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Body: string(b)}, nil
}

// fail turns client errors into responses. Store failures are returned to the
// runtime unchanged.
func fail(ctx context.Context, err error) (events.APIGatewayProxyResponse, error) {
	status := apperrors.HTTPStatus(apperrors.ErrorCode(err))
	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "Todo request failed", "error", err)
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(status, apperrors.NewBody(err))
}

// Create handles POST /todos.
func Create(svc *service.Service) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		var body struct {
			Title string `json:"title"`
		}
		if err := decodeBody(req, &body); err != nil {
			return fail(ctx, err)
		}
		todo, err := svc.Create(ctx, Identity(req), body.Title)
		if err != nil {
			return fail(ctx, err)
		}
		return respond(http.StatusCreated, todo)
	}
}

// List handles GET /todos.
func List(svc *service.Service) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		todos, err := svc.List(ctx, Identity(req))
		if err != nil {
			return fail(ctx, err)
		}
		return respond(http.StatusOK, todos)
	}
}

// Update handles PUT /todos/{id}.
func Update(svc *service.Service) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		var patch models.TodoPatch
		if err := decodeBody(req, &patch); err != nil {
			return fail(ctx, err)
		}
		todo, err := svc.Update(ctx, Identity(req), req.PathParameters["id"], patch)
		if err != nil {
			return fail(ctx, err)
		}
		return respond(http.StatusOK, todo)
	}
}

// Delete handles DELETE /todos/{id}.
func Delete(svc *service.Service) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if err := svc.Delete(ctx, Identity(req), req.PathParameters["id"]); err != nil {
			return fail(ctx, err)
		}
		return respond(http.StatusOK, map[string]string{"message": "Todo deleted"})
	}
}
