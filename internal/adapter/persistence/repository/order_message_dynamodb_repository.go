package repository

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"assistec/internal/config"
	"assistec/internal/domain/entities"
	"assistec/internal/usecase/interfaces"
)

type orderMessageItem struct {
	OrderID    string  `dynamodbav:"order_id"`
	ID         string  `dynamodbav:"id"`
	SenderID   *string `dynamodbav:"sender_id,omitempty"`
	SenderRole string  `dynamodbav:"sender_role"`
	Body       string  `dynamodbav:"body"`
	CreatedAt  string  `dynamodbav:"created_at"`
}

// OrderMessageDynamoRepository stores the chat thread (PK order_id, SK id).
type OrderMessageDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IOrderMessageRepository = (*OrderMessageDynamoRepository)(nil)

func NewOrderMessageDynamoRepository(ddb DynamoAPI, tables config.TableConfig) *OrderMessageDynamoRepository {
	return &OrderMessageDynamoRepository{ddb: ddb, tableName: Tables(tables).Messages}
}

// Append is idempotent on msg.ID: redelivered outbox messages keep their id.
func (r *OrderMessageDynamoRepository) Append(ctx context.Context, msg entities.OrderMessage) (entities.OrderMessage, error) {
	av, err := attributevalue.MarshalMap(orderMessageItem{
		OrderID:    msg.OrderID,
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		SenderRole: string(msg.SenderRole),
		Body:       msg.Body,
		CreatedAt:  formatTime(msg.CreatedAt),
	})
	if err != nil {
		return entities.OrderMessage{}, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil && !isConditionalCheckFailed(err) {
		return entities.OrderMessage{}, err
	}
	return msg, nil
}

func (r *OrderMessageDynamoRepository) ListByOrderID(ctx context.Context, orderID string) ([]entities.OrderMessage, error) {
	items, err := queryByOrder[orderMessageItem](ctx, r.ddb, r.tableName, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]entities.OrderMessage, 0, len(items))
	for _, it := range items {
		out = append(out, entities.OrderMessage{
			ID:         it.ID,
			OrderID:    it.OrderID,
			SenderID:   it.SenderID,
			SenderRole: entities.SenderRole(it.SenderRole),
			Body:       it.Body,
			CreatedAt:  parseTime(it.CreatedAt),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderMessageDynamoRepository) DeleteByOrderID(ctx context.Context, orderID string) error {
	return deleteByOrder(ctx, r.ddb, r.tableName, orderID)
}
