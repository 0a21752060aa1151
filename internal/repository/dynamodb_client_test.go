package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"buzzy-agent/internal/domain"
)

type fakeDynamo struct {
	queryOut    *dynamodb.QueryOutput
	queryErr    error
	txErr       error
	lastQueryIn *dynamodb.QueryInput
	lastTxInput *dynamodb.TransactWriteItemsInput
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.lastQueryIn = in
	return f.queryOut, f.queryErr
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.lastTxInput = in
	return &dynamodb.TransactWriteItemsOutput{}, f.txErr
}

func makeItem(sk, message, answer string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":       &types.AttributeValueMemberS{Value: "CONV#abc"},
		"SK":       &types.AttributeValueMemberS{Value: sk},
		"message":  &types.AttributeValueMemberS{Value: message},
		"answer":   &types.AttributeValueMemberS{Value: answer},
		"category": &types.AttributeValueMemberS{Value: "pricing"},
	}
}

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func mustNewClient(t *testing.T, db *fakeDynamo) *Client {
	t.Helper()
	c, err := New(db, "buzzy-transcripts")
	require.NoError(t, err)
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestNew_Validates(t *testing.T) {
	_, err := New(nil, "table")
	require.Error(t, err)
	_, err = New(&fakeDynamo{}, " ")
	require.Error(t, err)
}

func TestGetHistory_ReturnsChronologicalPairs(t *testing.T) {
	db := &fakeDynamo{queryOut: &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		makeItem("MSG#2026-10-15T09:00:00Z", "newer question", "newer answer"),
		makeItem("MSG#2026-10-15T08:00:00Z", "older question", "older answer"),
	}}}
	c := mustNewClient(t, db)

	msgs, err := c.GetHistory(context.Background(), "abc", 3)
	require.NoError(t, err)
	require.Equal(t, []domain.ConversationMessage{
		{Role: domain.RoleUser, Content: "older question"},
		{Role: domain.RoleAssistant, Content: "older answer"},
		{Role: domain.RoleUser, Content: "newer question"},
		{Role: domain.RoleAssistant, Content: "newer answer"},
	}, msgs)

	require.Equal(t, "PK = :pk AND begins_with(SK, :prefix)", aws.ToString(db.lastQueryIn.KeyConditionExpression))
	require.False(t, aws.ToBool(db.lastQueryIn.ScanIndexForward))
	require.EqualValues(t, 3, aws.ToInt32(db.lastQueryIn.Limit))
	require.Equal(t, "CONV#abc", db.lastQueryIn.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS).Value)
}

func TestGetHistory_EmptyResult(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{queryOut: &dynamodb.QueryOutput{}})
	msgs, err := c.GetHistory(context.Background(), "abc", 3)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestGetHistory_ZeroLimitSkipsQuery(t *testing.T) {
	db := &fakeDynamo{}
	msgs, err := mustNewClient(t, db).GetHistory(context.Background(), "abc", 0)
	require.NoError(t, err)
	require.Nil(t, msgs)
	require.Nil(t, db.lastQueryIn)
}

func TestGetHistory_RequiresConversationID(t *testing.T) {
	_, err := mustNewClient(t, &fakeDynamo{}).GetHistory(context.Background(), " ", 3)
	require.ErrorContains(t, err, "conversation id")
}

func TestGetHistory_QueryError(t *testing.T) {
	db := &fakeDynamo{queryErr: errors.New("ResourceNotFoundException")}
	_, err := mustNewClient(t, db).GetHistory(context.Background(), "abc", 3)
	require.ErrorContains(t, err, "GetHistory query")
}

func TestGetHistory_MalformedItem(t *testing.T) {
	item := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "CONV#abc"},
		"SK": &types.AttributeValueMemberS{Value: "MSG#ts"},
	}
	db := &fakeDynamo{queryOut: &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}}
	_, err := mustNewClient(t, db).GetHistory(context.Background(), "abc", 3)
	require.ErrorContains(t, err, "message")
}

func TestNewExchange(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{})
	ex := c.NewExchange("abc", "Hi!", "Hello!", domain.IntentGreeting, "fallback")
	require.Equal(t, "CONV#abc", ex.PK)
	require.Equal(t, "MSG#2026-10-15T09:30:00Z", ex.SK)
	require.Equal(t, fixedNow.Add(ttlDuration).Unix(), ex.TTL)
	require.Equal(t, domain.IntentGreeting, ex.Category)
}

func TestRecord_WritesExchangeAndMeta(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)

	err := c.Record(context.Background(), "abc", "How much is it?", "It depends.", domain.IntentPricing, "live")
	require.NoError(t, err)
	require.Len(t, db.lastTxInput.TransactItems, 2)

	put := db.lastTxInput.TransactItems[0].Put
	require.Equal(t, "buzzy-transcripts", aws.ToString(put.TableName))
	require.Equal(t, "attribute_not_exists(PK) AND attribute_not_exists(SK)", aws.ToString(put.ConditionExpression))
	require.Equal(t, "How much is it?", put.Item["message"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "pricing", put.Item["category"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "live", put.Item["mode"].(*types.AttributeValueMemberS).Value)

	update := db.lastTxInput.TransactItems[1].Update
	require.Equal(t, skMeta, update.Key["SK"].(*types.AttributeValueMemberS).Value)
	require.Contains(t, aws.ToString(update.UpdateExpression), "ADD exchanges :one")
	require.Equal(t, "ttl", update.ExpressionAttributeNames["#ttl"])
	require.Equal(t, "2026-10-15T09:30:00Z", update.ExpressionAttributeValues[":now"].(*types.AttributeValueMemberS).Value)
}

func TestRecord_RequiresConversationID(t *testing.T) {
	db := &fakeDynamo{}
	err := mustNewClient(t, db).Record(context.Background(), "", "q", "a", domain.IntentGeneral, "live")
	require.Error(t, err)
	require.Nil(t, db.lastTxInput)
}

func TestSaveExchange_RequiresKeys(t *testing.T) {
	err := mustNewClient(t, &fakeDynamo{}).SaveExchange(context.Background(), domain.Exchange{})
	require.ErrorContains(t, err, "PK and SK are required")
}

func TestSaveExchange_DynamoError(t *testing.T) {
	db := &fakeDynamo{txErr: errors.New("TransactionCanceledException")}
	c := mustNewClient(t, db)
	err := c.SaveExchange(context.Background(), c.NewExchange("abc", "q", "a", domain.IntentGeneral, "fallback"))
	require.ErrorContains(t, err, "TransactionCanceledException")
}
