package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sicko7947/restddb"
)

// DynamoDBStore implements restddb.Store using AWS DynamoDB
type DynamoDBStore struct {
	client DynamoDBClient
}

// NewDynamoDBStore creates a new DynamoDB-backed store
func NewDynamoDBStore(client DynamoDBClient) restddb.Store {
	return &DynamoDBStore{
		client: client,
	}
}

// Schema operations

func (s *DynamoDBStore) DescribeKeySchema(ctx context.Context, table string) (restddb.KeySchema, error) {
	out, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(table),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
	}

	if out.Table == nil || len(out.Table.KeySchema) == 0 {
		return nil, fmt.Errorf("table %s has no key schema", table)
	}

	return keySchemaOf(out.Table.KeySchema), nil
}

// Item operations

func (s *DynamoDBStore) GetItem(ctx context.Context, table string, key restddb.Id, projection []string) (restddb.Item, error) {
	gen, err := attributevalue.MarshalMap(map[string]any(key))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	req := &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       gen,
	}

	if len(projection) > 0 {
		expr, err := expression.NewBuilder().WithProjection(projectionOf(projection)).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build projection: %w", err)
		}
		req.ProjectionExpression = expr.Projection()
		req.ExpressionAttributeNames = expr.Names()
	}

	result, err := s.client.GetItem(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	return decodeItem(result.Item)
}

func (s *DynamoDBStore) PutItem(ctx context.Context, table string, item restddb.Item, cond restddb.Condition) error {
	gen, err := attributevalue.MarshalMap(map[string]any(item))
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	req := &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      gen,
	}

	if !cond.IsNone() {
		expr, err := expression.NewBuilder().WithCondition(conditionOf(cond)).Build()
		if err != nil {
			return fmt.Errorf("failed to build condition: %w", err)
		}
		req.ConditionExpression = expr.Condition()
		req.ExpressionAttributeNames = expr.Names()
	}

	if _, err := s.client.PutItem(ctx, req); err != nil {
		return recoverConditionFailed("failed to put item", err)
	}

	return nil
}

func (s *DynamoDBStore) DeleteItem(ctx context.Context, table string, key restddb.Id) error {
	gen, err := attributevalue.MarshalMap(map[string]any(key))
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       gen,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}

func (s *DynamoDBStore) UpdateItem(ctx context.Context, table string, key restddb.Id, cond restddb.Condition, update restddb.UpdateExpression) (restddb.Item, error) {
	gen, err := attributevalue.MarshalMap(map[string]any(key))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	clauses, err := parseUpdate(update)
	if err != nil {
		return nil, err
	}

	// Attribute names may be reserved words, so every name and value goes
	// through a placeholder
	builder := expression.NewBuilder().WithUpdate(updateOf(clauses))
	if !cond.IsNone() {
		builder = builder.WithCondition(conditionOf(cond))
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	req := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       gen,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	}

	result, err := s.client.UpdateItem(ctx, req)
	if err != nil {
		return nil, recoverConditionFailed("failed to update item", err)
	}

	return decodeItem(result.Attributes)
}

// Helpers

// keySchemaOf orders the key elements HASH first, RANGE second
func keySchemaOf(elements []types.KeySchemaElement) restddb.KeySchema {
	schema := make(restddb.KeySchema, 0, len(elements))
	for _, kind := range []types.KeyType{types.KeyTypeHash, types.KeyTypeRange} {
		for _, el := range elements {
			if el.KeyType == kind && el.AttributeName != nil {
				schema = append(schema, *el.AttributeName)
			}
		}
	}
	return schema
}

func projectionOf(attrs []string) expression.ProjectionBuilder {
	names := make([]expression.NameBuilder, len(attrs))
	for i, attr := range attrs {
		names[i] = expression.Name(attr)
	}
	return expression.NamesList(names[0], names[1:]...)
}

func updateOf(clauses []setClause) expression.UpdateBuilder {
	var update expression.UpdateBuilder
	for _, c := range clauses {
		update = update.Set(expression.Name(c.Name), expression.Value(c.Value))
	}
	return update
}

func conditionOf(cond restddb.Condition) expression.ConditionBuilder {
	clauses := make([]expression.ConditionBuilder, len(cond.Attributes))
	for i, attr := range cond.Attributes {
		if cond.Kind == restddb.ConditionAttributesNotExist {
			clauses[i] = expression.AttributeNotExists(expression.Name(attr))
		} else {
			clauses[i] = expression.AttributeExists(expression.Name(attr))
		}
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return clauses[0].And(clauses[1], clauses[2:]...)
}

func decodeItem(gen map[string]types.AttributeValue) (restddb.Item, error) {
	item := restddb.Item{}
	if err := attributevalue.UnmarshalMap(gen, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return item, nil
}

// recoverConditionFailed reports the SDK's ConditionalCheckFailedException
// as the store-neutral condition failure
func recoverConditionFailed(msg string, err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return restddb.ConditionFailed(err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
