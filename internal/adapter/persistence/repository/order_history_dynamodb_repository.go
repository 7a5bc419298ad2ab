package repository

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"assistec/internal/config"
	"assistec/internal/domain/entities"
	"assistec/internal/usecase/interfaces"
)

type statusHistoryItem struct {
	OrderID   string  `dynamodbav:"order_id"`
	ID        string  `dynamodbav:"id"`
	Status    string  `dynamodbav:"status"`
	Notes     *string `dynamodbav:"notes,omitempty"`
	CreatedBy *string `dynamodbav:"created_by,omitempty"`
	CreatedAt string  `dynamodbav:"created_at"`
}

// approvalItem keeps total_cost for records written before total_final_cost existed.
type approvalItem struct {
	OrderID        string   `dynamodbav:"order_id"`
	ID             string   `dynamodbav:"id"`
	LaborCost      float64  `dynamodbav:"labor_cost"`
	PartsCost      float64  `dynamodbav:"parts_cost"`
	SubtotalCost   float64  `dynamodbav:"subtotal_cost"`
	DiscountAmount float64  `dynamodbav:"discount_amount"`
	DiscountReason *string  `dynamodbav:"discount_reason,omitempty"`
	TotalFinalCost *float64 `dynamodbav:"total_final_cost,omitempty"`
	TotalCost      *float64 `dynamodbav:"total_cost,omitempty"`
	ApprovedAt     string   `dynamodbav:"approved_at"`
	Notes          string   `dynamodbav:"notes,omitempty"`
}

// OrderHistoryDynamoRepository reads the status and approval logs. Both
// tables use PK order_id and SK id; writes happen in
// ServiceOrderDynamoRepository transactions.
type OrderHistoryDynamoRepository struct {
	ddb    DynamoAPI
	tables config.TableConfig
}

var _ interfaces.IOrderHistoryRepository = (*OrderHistoryDynamoRepository)(nil)

func NewOrderHistoryDynamoRepository(ddb DynamoAPI, tables config.TableConfig) *OrderHistoryDynamoRepository {
	return &OrderHistoryDynamoRepository{ddb: ddb, tables: Tables(tables)}
}

func (r *OrderHistoryDynamoRepository) ListStatusHistory(ctx context.Context, orderID string) ([]entities.StatusHistoryEntry, error) {
	items, err := queryByOrder[statusHistoryItem](ctx, r.ddb, r.tables.StatusHistory, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]entities.StatusHistoryEntry, 0, len(items))
	for _, it := range items {
		out = append(out, fromStatusHistoryItem(it))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderHistoryDynamoRepository) ListApprovalHistory(ctx context.Context, orderID string) ([]entities.ApprovalHistoryEntry, error) {
	items, err := queryByOrder[approvalItem](ctx, r.ddb, r.tables.Approvals, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]entities.ApprovalHistoryEntry, 0, len(items))
	for _, it := range items {
		out = append(out, fromApprovalItem(it))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ApprovedAt.Before(out[j].ApprovedAt) })
	return out, nil
}

func (r *OrderHistoryDynamoRepository) DeleteApprovalEntry(ctx context.Context, orderID, entryID string) (bool, error) {
	out, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tables.Approvals),
		Key:          keyOf("order_id", orderID, "id", entryID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, err
	}
	return len(out.Attributes) > 0, nil
}

func (r *OrderHistoryDynamoRepository) DeleteByOrderID(ctx context.Context, orderID string) error {
	if err := deleteByOrder(ctx, r.ddb, r.tables.Approvals, orderID); err != nil {
		return err
	}
	return deleteByOrder(ctx, r.ddb, r.tables.StatusHistory, orderID)
}

func toStatusHistoryItem(e entities.StatusHistoryEntry) statusHistoryItem {
	return statusHistoryItem{
		OrderID:   e.OrderID,
		ID:        e.ID,
		Status:    string(e.Status),
		Notes:     e.Notes,
		CreatedBy: e.CreatedBy,
		CreatedAt: formatTime(e.CreatedAt),
	}
}

func fromStatusHistoryItem(it statusHistoryItem) entities.StatusHistoryEntry {
	return entities.StatusHistoryEntry{
		ID:        it.ID,
		OrderID:   it.OrderID,
		Status:    entities.OrderStatus(it.Status),
		Notes:     it.Notes,
		CreatedBy: it.CreatedBy,
		CreatedAt: parseTime(it.CreatedAt),
	}
}

func toApprovalItem(e entities.ApprovalHistoryEntry) approvalItem {
	return approvalItem{
		OrderID:        e.OrderID,
		ID:             e.ID,
		LaborCost:      e.LaborCost,
		PartsCost:      e.PartsCost,
		SubtotalCost:   e.SubtotalCost,
		DiscountAmount: e.DiscountAmount,
		DiscountReason: e.DiscountReason,
		TotalFinalCost: e.TotalFinalCost,
		TotalCost:      e.TotalCost,
		ApprovedAt:     formatTime(e.ApprovedAt),
		Notes:          e.Notes,
	}
}

func fromApprovalItem(it approvalItem) entities.ApprovalHistoryEntry {
	return entities.ApprovalHistoryEntry{
		ID:             it.ID,
		OrderID:        it.OrderID,
		LaborCost:      it.LaborCost,
		PartsCost:      it.PartsCost,
		SubtotalCost:   it.SubtotalCost,
		DiscountAmount: it.DiscountAmount,
		DiscountReason: it.DiscountReason,
		TotalFinalCost: it.TotalFinalCost,
		TotalCost:      it.TotalCost,
		ApprovedAt:     parseTime(it.ApprovedAt),
		Notes:          it.Notes,
	}
}
