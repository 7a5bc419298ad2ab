package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"assistec/internal/config"
)

// DynamoAPI is the subset of *dynamodb.Client the repositories use.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

// Tables resolves table names, falling back to the defaults for empty entries.
func Tables(cfg config.TableConfig) config.TableConfig {
	def := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return config.TableConfig{
		Orders:        def(cfg.Orders, "service_orders"),
		StatusHistory: def(cfg.StatusHistory, "order_status_history"),
		Approvals:     def(cfg.Approvals, "approval_history"),
		Items:         def(cfg.Items, "service_order_items"),
		Messages:      def(cfg.Messages, "order_messages"),
		Outbox:        def(cfg.Outbox, "notification_outbox"),
		Settings:      def(cfg.Settings, "settings"),
		Profiles:      def(cfg.Profiles, "profiles"),
		Payments:      def(cfg.Payments, "payments"),
		Counters:      def(cfg.Counters, "counters"),
	}
}

const batchWriteLimit = 25

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseTime(*s)
	return &t
}

func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringValue(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

func numberValue(v float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: floatToString(v)}
}

func keyOf(pairs ...string) map[string]types.AttributeValue {
	key := make(map[string]types.AttributeValue, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key[pairs[i]] = stringValue(pairs[i+1])
	}
	return key
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func isConditionalCheckFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return errors.As(err, &cfe)
}

// isTransactionConditionFailed reports a transaction canceled because one of
// its conditions did not hold.
func isTransactionConditionFailed(err error) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	for _, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

// queryAll follows LastEvaluatedKey until the query is exhausted.
func queryAll[T any](ctx context.Context, ddb DynamoAPI, in *dynamodb.QueryInput) ([]T, error) {
	var out []T
	p := dynamodb.NewQueryPaginator(ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]T, 0, len(page.Items))
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

// queryByOrder lists every item of table whose partition key order_id is orderID.
func queryByOrder[T any](ctx context.Context, ddb DynamoAPI, table, orderID string) ([]T, error) {
	return queryAll[T](ctx, ddb, &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    aws.String("#order_id = :order_id"),
		ExpressionAttributeNames:  map[string]string{"#order_id": "order_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":order_id": stringValue(orderID)},
		ConsistentRead:            aws.Bool(true),
	})
}

// deleteByOrder removes every item under orderID from a table keyed by
// (order_id, id).
func deleteByOrder(ctx context.Context, ddb DynamoAPI, table, orderID string) error {
	type key struct {
		OrderID string `dynamodbav:"order_id"`
		ID      string `dynamodbav:"id"`
	}
	keys, err := queryAll[key](ctx, ddb, &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    aws.String("#order_id = :order_id"),
		ProjectionExpression:      aws.String("#order_id, #id"),
		ExpressionAttributeNames:  map[string]string{"#order_id": "order_id", "#id": "id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":order_id": stringValue(orderID)},
		ConsistentRead:            aws.Bool(true),
	})
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(keys))
	for _, k := range keys {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: keyOf("order_id", k.OrderID, "id", k.ID)},
		})
	}
	return batchWrite(ctx, ddb, table, requests)
}

// batchWrite sends requests in chunks, resubmitting unprocessed items.
func batchWrite(ctx context.Context, ddb DynamoAPI, table string, requests []types.WriteRequest) error {
	for len(requests) > 0 {
		n := min(batchWriteLimit, len(requests))
		chunk := requests[:n]
		requests = requests[n:]

		for attempt := 0; len(chunk) > 0; attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt*50) * time.Millisecond):
				}
			}
			out, err := ddb.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{table: chunk},
			})
			if err != nil {
				return err
			}
			chunk = out.UnprocessedItems[table]
		}
	}
	return nil
}
