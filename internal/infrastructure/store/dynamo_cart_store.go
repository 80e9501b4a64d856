package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/storefront/internal/domain/cart"
)

// DynamoCartStore keeps one cart document per user in DynamoDB. Writes are
// conditioned on the version read, so concurrent mutations of the same cart
// surface as cart.ErrConflict instead of silently losing items.
type DynamoCartStore struct {
	client    *dynamodb.Client
	tableName string
}

// dynamoCart is the DynamoDB item layout. Items are stored natively so the
// document stays queryable from the console.
type dynamoCart struct {
	UserID      string          `dynamodbav:"user_id"`
	Items       []cart.LineItem `dynamodbav:"items"`
	TotalItems  int             `dynamodbav:"total_items"`
	TotalAmount float64         `dynamodbav:"total_amount"`
	Version     int             `dynamodbav:"version"`
	UpdatedAt   string          `dynamodbav:"updated_at"`
}

func NewDynamoCartStore(client *dynamodb.Client, tableName string) *DynamoCartStore {
	return &DynamoCartStore{
		client:    client,
		tableName: tableName,
	}
}

// NewDynamoClient builds a DynamoDB client from the ambient AWS configuration.
// An explicit endpoint overrides the resolved one for local development.
func NewDynamoClient(ctx context.Context, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func (s *DynamoCartStore) Get(ctx context.Context, userID string) (*cart.Cart, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var item dynamoCart
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return item.toCart(), nil
}

// Save writes the cart, bumping its version. The condition refuses the write
// when the stored version differs from the one the caller read.
func (s *DynamoCartStore) Save(ctx context.Context, c *cart.Cart) error {
	item := dynamoCart{
		UserID:      c.UserID,
		Items:       c.Items,
		TotalItems:  c.TotalItems,
		TotalAmount: c.TotalAmount,
		Version:     c.Version + 1,
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}
	if c.Version == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(user_id)")
	} else {
		input.ConditionExpression = aws.String("version = :v")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", c.Version)},
		}
	}

	_, err = s.client.PutItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return cart.ErrConflict
		}
		return fmt.Errorf("failed to put cart: %w", err)
	}

	c.Version = item.Version
	return nil
}

func (s *DynamoCartStore) Delete(ctx context.Context, userID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (d *dynamoCart) toCart() *cart.Cart {
	c := &cart.Cart{
		UserID:      d.UserID,
		Items:       d.Items,
		TotalItems:  d.TotalItems,
		TotalAmount: d.TotalAmount,
		Version:     d.Version,
	}
	if t, err := time.Parse(time.RFC3339Nano, d.UpdatedAt); err == nil {
		c.UpdatedAt = t
	}
	if c.Items == nil {
		c.Items = []cart.LineItem{}
	}
	return c
}
