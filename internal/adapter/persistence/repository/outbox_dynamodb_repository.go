package repository

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"assistec/internal/config"
	"assistec/internal/domain/entities"
	"assistec/internal/usecase/interfaces"
)

const outboxStatusIndex = "status-index"

type outboxItem struct {
	ID        string `dynamodbav:"id"`
	OrderID   string `dynamodbav:"order_id"`
	Channel   string `dynamodbav:"channel"`
	Recipient string `dynamodbav:"recipient,omitempty"`
	Body      string `dynamodbav:"body"`
	Status    string `dynamodbav:"status"`
	Attempts  int    `dynamodbav:"attempts"`
	LastError string `dynamodbav:"last_error,omitempty"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// OutboxDynamoRepository persists notifications awaiting delivery.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: status-index (PK: status, SK: created_at)
type OutboxDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IOutboxRepository = (*OutboxDynamoRepository)(nil)

func NewOutboxDynamoRepository(ddb DynamoAPI, tables config.TableConfig) *OutboxDynamoRepository {
	return &OutboxDynamoRepository{
		ddb:       ddb,
		tableName: Tables(tables).Outbox,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *OutboxDynamoRepository) Enqueue(ctx context.Context, msg entities.OutboxMessage) (entities.OutboxMessage, error) {
	av, err := attributevalue.MarshalMap(toOutboxItem(msg))
	if err != nil {
		return entities.OutboxMessage{}, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return entities.OutboxMessage{}, err
	}
	return msg, nil
}

// ListPending queries the pending and failed partitions of the status index.
func (r *OutboxDynamoRepository) ListPending(ctx context.Context, limit, maxAttempts int) ([]entities.OutboxMessage, error) {
	var out []entities.OutboxMessage
	for _, status := range []entities.OutboxStatus{entities.OutboxStatusPending, entities.OutboxStatusFailed} {
		items, err := queryAll[outboxItem](ctx, r.ddb, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(outboxStatusIndex),
			KeyConditionExpression: aws.String("#status = :status"),
			FilterExpression:       aws.String("#attempts < :max"),
			ExpressionAttributeNames: map[string]string{
				"#status":   "status",
				"#attempts": "attempts",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status": stringValue(string(status)),
				":max":    &types.AttributeValueMemberN{Value: strconv.Itoa(maxAttempts)},
			},
		})
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			out = append(out, fromOutboxItem(it))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OutboxDynamoRepository) MarkSent(ctx context.Context, id string) error {
	return r.mark(ctx, id, entities.OutboxStatusSent, "")
}

func (r *OutboxDynamoRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.mark(ctx, id, entities.OutboxStatusFailed, reason)
}

func (r *OutboxDynamoRepository) mark(ctx context.Context, id string, status entities.OutboxStatus, reason string) error {
	expr := "SET #status = :status, #updated_at = :updated_at ADD #attempts :one"
	names := map[string]string{
		"#status":     "status",
		"#updated_at": "updated_at",
		"#attempts":   "attempts",
	}
	values := map[string]types.AttributeValue{
		":status":     stringValue(string(status)),
		":updated_at": stringValue(formatTime(r.now())),
		":one":        &types.AttributeValueMemberN{Value: "1"},
	}
	if reason != "" {
		expr = "SET #status = :status, #updated_at = :updated_at, #last_error = :last_error ADD #attempts :one"
		values[":last_error"] = stringValue(reason)
	} else {
		expr += " REMOVE #last_error"
	}
	names["#last_error"] = "last_error"

	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       keyOf("id", id),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ExpressionAttributeValues: values,
	})
	return err
}

func toOutboxItem(m entities.OutboxMessage) outboxItem {
	return outboxItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Channel:   string(m.Channel),
		Recipient: m.Recipient,
		Body:      m.Body,
		Status:    string(m.Status),
		Attempts:  m.Attempts,
		LastError: m.LastError,
		CreatedAt: formatTime(m.CreatedAt),
		UpdatedAt: formatTime(m.UpdatedAt),
	}
}

func fromOutboxItem(it outboxItem) entities.OutboxMessage {
	return entities.OutboxMessage{
		ID:        it.ID,
		OrderID:   it.OrderID,
		Channel:   entities.OutboxChannel(it.Channel),
		Recipient: it.Recipient,
		Body:      it.Body,
		Status:    entities.OutboxStatus(it.Status),
		Attempts:  it.Attempts,
		LastError: it.LastError,
		CreatedAt: parseTime(it.CreatedAt),
		UpdatedAt: parseTime(it.UpdatedAt),
	}
}
