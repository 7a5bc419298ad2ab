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

type orderItemItem struct {
	OrderID       string `dynamodbav:"order_id"`
	ID            string `dynamodbav:"id"`
	Equipment     string `dynamodbav:"equipment"`
	Brand         string `dynamodbav:"brand,omitempty"`
	Model         string `dynamodbav:"model,omitempty"`
	SerialNumber  string `dynamodbav:"serial_number,omitempty"`
	ReportedIssue string `dynamodbav:"reported_issue,omitempty"`
	CreatedAt     string `dynamodbav:"created_at"`
}

// OrderItemDynamoRepository stores extra equipment of an order (PK order_id, SK id).
type OrderItemDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IOrderItemRepository = (*OrderItemDynamoRepository)(nil)

func NewOrderItemDynamoRepository(ddb DynamoAPI, tables config.TableConfig) *OrderItemDynamoRepository {
	return &OrderItemDynamoRepository{ddb: ddb, tableName: Tables(tables).Items}
}

func (r *OrderItemDynamoRepository) Create(ctx context.Context, item entities.ServiceOrderItem) (entities.ServiceOrderItem, error) {
	av, err := attributevalue.MarshalMap(orderItemItem{
		OrderID:       item.OrderID,
		ID:            item.ID,
		Equipment:     item.Equipment,
		Brand:         item.Brand,
		Model:         item.Model,
		SerialNumber:  item.SerialNumber,
		ReportedIssue: item.ReportedIssue,
		CreatedAt:     formatTime(item.CreatedAt),
	})
	if err != nil {
		return entities.ServiceOrderItem{}, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return entities.ServiceOrderItem{}, err
	}
	return item, nil
}

func (r *OrderItemDynamoRepository) ListByOrderID(ctx context.Context, orderID string) ([]entities.ServiceOrderItem, error) {
	items, err := queryByOrder[orderItemItem](ctx, r.ddb, r.tableName, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]entities.ServiceOrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, entities.ServiceOrderItem{
			ID:            it.ID,
			OrderID:       it.OrderID,
			Equipment:     it.Equipment,
			Brand:         it.Brand,
			Model:         it.Model,
			SerialNumber:  it.SerialNumber,
			ReportedIssue: it.ReportedIssue,
			CreatedAt:     parseTime(it.CreatedAt),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderItemDynamoRepository) DeleteByOrderID(ctx context.Context, orderID string) error {
	return deleteByOrder(ctx, r.ddb, r.tableName, orderID)
}
