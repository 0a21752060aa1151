package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"buzzy-agent/internal/domain"
)

const (
	skPrefixMsg = "MSG#"
	skMeta      = "META#"
	ttlDuration = 30 * 24 * time.Hour // 30-day TTL
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
type dynamodbAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Client stores chat transcripts in a single DynamoDB table: one MSG# item per
// exchange and one META# item per conversation.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

func convPK(conversationID string) string {
	return "CONV#" + conversationID
}

func msgSK(ts time.Time) string {
	return skPrefixMsg + ts.UTC().Format(time.RFC3339Nano)
}

// GetHistory returns the latest limit exchanges of a conversation as
// chronologically ordered user/assistant messages.
func (c *Client) GetHistory(ctx context.Context, conversationID string, limit int) ([]domain.ConversationMessage, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, errors.New("repository: GetHistory: conversation id is required")
	}
	if limit <= 0 {
		return nil, nil
	}

	out, err := c.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: convPK(conversationID)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefixMsg},
		},
		// Newest first so LIMIT keeps the most recent exchanges.
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("repository: GetHistory query: %w", err)
	}

	msgs := make([]domain.ConversationMessage, 0, 2*len(out.Items))
	for i := len(out.Items) - 1; i >= 0; i-- {
		ex, err := itemToExchange(out.Items[i])
		if err != nil {
			return nil, fmt.Errorf("repository: GetHistory unmarshal: %w", err)
		}
		msgs = append(msgs,
			domain.ConversationMessage{Role: domain.RoleUser, Content: ex.Message},
			domain.ConversationMessage{Role: domain.RoleAssistant, Content: ex.Answer},
		)
	}
	return msgs, nil
}

// SaveExchange writes the exchange and bumps the conversation metadata in one
// transaction.
func (c *Client) SaveExchange(ctx context.Context, ex domain.Exchange) error {
	if ex.PK == "" || ex.SK == "" {
		return errors.New("repository: SaveExchange: PK and SK are required")
	}

	_, err := c.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(c.tableName),
					Item:                exchangeItem(ex),
					ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
				},
			},
			{
				Update: &types.Update{
					TableName: aws.String(c.tableName),
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: ex.PK},
						"SK": &types.AttributeValueMemberS{Value: skMeta},
					},
					UpdateExpression: aws.String("SET conversationId = :cid, lastActivity = :now, #ttl = :ttl ADD exchanges :one"),
					ExpressionAttributeNames: map[string]string{
						"#ttl": "ttl",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":cid": &types.AttributeValueMemberS{Value: ex.ConversationID},
						":now": &types.AttributeValueMemberS{Value: c.now().UTC().Format(time.RFC3339)},
						":ttl": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ex.TTL)},
						":one": &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("repository: SaveExchange: %w", err)
	}
	return nil
}

// Record builds and saves an exchange for conversationID.
func (c *Client) Record(ctx context.Context, conversationID, message, answer string, category domain.IntentCategory, mode string) error {
	if strings.TrimSpace(conversationID) == "" {
		return errors.New("repository: Record: conversation id is required")
	}
	return c.SaveExchange(ctx, c.NewExchange(conversationID, message, answer, category, mode))
}

// NewExchange constructs an Exchange with PK/SK/TTL derived from the clock.
func (c *Client) NewExchange(conversationID, message, answer string, category domain.IntentCategory, mode string) domain.Exchange {
	now := c.now().UTC()
	return domain.Exchange{
		PK:             convPK(conversationID),
		SK:             msgSK(now),
		ConversationID: conversationID,
		Message:        message,
		Answer:         answer,
		Category:       category,
		Mode:           mode,
		TTL:            now.Add(ttlDuration).Unix(),
	}
}

func itemToExchange(item map[string]types.AttributeValue) (domain.Exchange, error) {
	pk, err := strAttr(item, "PK")
	if err != nil {
		return domain.Exchange{}, err
	}
	sk, err := strAttr(item, "SK")
	if err != nil {
		return domain.Exchange{}, err
	}
	message, err := strAttr(item, "message")
	if err != nil {
		return domain.Exchange{}, err
	}
	answer, err := strAttr(item, "answer")
	if err != nil {
		return domain.Exchange{}, err
	}
	category, _ := strAttr(item, "category") // allow empty
	mode, _ := strAttr(item, "mode")         // allow empty

	return domain.Exchange{
		PK:       pk,
		SK:       sk,
		Message:  message,
		Answer:   answer,
		Category: domain.IntentCategory(category),
		Mode:     mode,
	}, nil
}

func exchangeItem(ex domain.Exchange) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":             &types.AttributeValueMemberS{Value: ex.PK},
		"SK":             &types.AttributeValueMemberS{Value: ex.SK},
		"conversationId": &types.AttributeValueMemberS{Value: ex.ConversationID},
		"message":        &types.AttributeValueMemberS{Value: ex.Message},
		"answer":         &types.AttributeValueMemberS{Value: ex.Answer},
		"category":       &types.AttributeValueMemberS{Value: string(ex.Category)},
		"mode":           &types.AttributeValueMemberS{Value: ex.Mode},
		"ttl":            &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ex.TTL)},
	}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
