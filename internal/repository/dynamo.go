package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todo-app/internal/models"
	apperrors "todo-app/pkg/errors"
	"todo-app/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client used by Dynamo.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

// Dynamo stores todos in a table with partition key userId and sort key todoId.
type Dynamo struct {
	client    DynamoAPI
	tableName string
}

var _ Repository = (*Dynamo)(nil)

// NewDynamo returns a repository over tableName.
func NewDynamo(client DynamoAPI, tableName string) *Dynamo {
	return &Dynamo{client: client, tableName: tableName}
}

func key(userID, todoID string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"userId": &ddbtypes.AttributeValueMemberS{Value: userID},
		"todoId": &ddbtypes.AttributeValueMemberS{Value: todoID},
	}
}

func (d *Dynamo) Put(ctx context.Context, todo models.Todo) error {
	const op = "repository.dynamo.Put"
	item, err := attributevalue.MarshalMap(todo)
	if err != nil {
		return apperrors.Internal(op, fmt.Errorf("marshal todo: %w", err))
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(todoId)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return conflict(op, todo.TodoID)
		}
		logger.Error(ctx, "DynamoDB PutItem failed", "error", err, "table", d.tableName)
		return apperrors.Internal(op, err)
	}
	return nil
}

func (d *Dynamo) ListByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	const op = "repository.dynamo.ListByUser"
	p := dynamodb.NewQueryPaginator(d.client, &dynamodb.QueryInput{
		TableName:              aws.String(d.tableName),
		KeyConditionExpression: aws.String("userId = :uid"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":uid": &ddbtypes.AttributeValueMemberS{Value: userID},
		},
	})
	todos := make([]models.Todo, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			logger.Error(ctx, "DynamoDB Query failed", "error", err, "table", d.tableName)
			return nil, apperrors.Internal(op, err)
		}
		var batch []models.Todo
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, apperrors.Internal(op, fmt.Errorf("unmarshal todos: %w", err))
		}
		todos = append(todos, batch...)
	}
	return todos, nil
}

func (d *Dynamo) Update(ctx context.Context, userID, todoID string, patch models.TodoPatch) (models.Todo, error) {
	const op = "repository.dynamo.Update"
	expr, names, values := updateExpression(patch)
	out, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.tableName),
		Key:                       key(userID, todoID),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(todoId)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              ddbtypes.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return models.Todo{}, notFound(op, todoID)
		}
		logger.Error(ctx, "DynamoDB UpdateItem failed", "error", err, "table", d.tableName, "todo_id", todoID)
		return models.Todo{}, apperrors.Internal(op, err)
	}
	var t models.Todo
	if err := attributevalue.UnmarshalMap(out.Attributes, &t); err != nil {
		return models.Todo{}, apperrors.Internal(op, fmt.Errorf("unmarshal todo: %w", err))
	}
	return t, nil
}

// updateExpression builds a SET clause for only the fields present in patch.
func updateExpression(patch models.TodoPatch) (string, map[string]string, map[string]ddbtypes.AttributeValue) {
	var sets []string
	names := make(map[string]string)
	values := make(map[string]ddbtypes.AttributeValue)
	if patch.Title != nil {
		sets = append(sets, "#title = :title")
		names["#title"] = "title"
		values[":title"] = &ddbtypes.AttributeValueMemberS{Value: *patch.Title}
	}
	if patch.Completed != nil {
		sets = append(sets, "#completed = :completed")
		names["#completed"] = "completed"
		values[":completed"] = &ddbtypes.AttributeValueMemberBOOL{Value: *patch.Completed}
	}
	return "SET " + strings.Join(sets, ", "), names, values
}

func (d *Dynamo) Delete(ctx context.Context, userID, todoID string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       key(userID, todoID),
	})
	if err != nil {
		logger.Error(ctx, "DynamoDB DeleteItem failed", "error", err, "table", d.tableName, "todo_id", todoID)
		return apperrors.Internal("repository.dynamo.Delete", err)
	}
	return nil
}

func (d *Dynamo) Ping(ctx context.Context) error {
	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.tableName)})
	if err != nil {
		return &apperrors.Error{Code: apperrors.EUnavailable, Op: "repository.dynamo.Ping", Err: err}
	}
	return nil
}

func isConditionFailed(err error) bool {
	var ccf *ddbtypes.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
