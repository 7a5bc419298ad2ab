package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"assistec/internal/config"
	"assistec/internal/domain/entities"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase/interfaces"
)

const (
	ordersApprovalTokenIndex = "approval_token-index"
	orderNumberCounter       = "service_order_number"
)

type serviceOrderItem struct {
	ID            string `dynamodbav:"id"`
	OrderNumber   int64  `dynamodbav:"order_number"`
	ClientID      string `dynamodbav:"client_id"`
	Equipment     string `dynamodbav:"equipment"`
	Brand         string `dynamodbav:"brand,omitempty"`
	Model         string `dynamodbav:"model,omitempty"`
	SerialNumber  string `dynamodbav:"serial_number,omitempty"`
	ReportedIssue string `dynamodbav:"reported_issue,omitempty"`
	Status        string `dynamodbav:"status"`

	LaborCost      *float64 `dynamodbav:"labor_cost,omitempty"`
	PartsCost      *float64 `dynamodbav:"parts_cost,omitempty"`
	DiscountAmount *float64 `dynamodbav:"discount_amount,omitempty"`
	DiscountReason *string  `dynamodbav:"discount_reason,omitempty"`
	TotalCost      *float64 `dynamodbav:"total_cost,omitempty"`

	// Empty tokens are omitted: index keys cannot be empty strings.
	ApprovalToken  string  `dynamodbav:"approval_token,omitempty"`
	BudgetApproved bool    `dynamodbav:"budget_approved"`
	ApprovedAt     *string `dynamodbav:"approved_at,omitempty"`

	EntryDate           string  `dynamodbav:"entry_date"`
	EstimatedCompletion *string `dynamodbav:"estimated_completion,omitempty"`
	CompletedAt         *string `dynamodbav:"completed_at,omitempty"`
	CreatedAt           string  `dynamodbav:"created_at"`
	UpdatedAt           string  `dynamodbav:"updated_at"`
}

// ServiceOrderDynamoRepository persists service orders and writes their
// history entries in the same transaction.
//
// Table requirements:
//   - orders: PK id (string); GSI approval_token-index (PK approval_token)
//   - status history and approvals: PK order_id, SK id
//   - counters: PK name
type ServiceOrderDynamoRepository struct {
	ddb    DynamoAPI
	tables config.TableConfig
}

var _ interfaces.IServiceOrderRepository = (*ServiceOrderDynamoRepository)(nil)

func NewServiceOrderDynamoRepository(ddb DynamoAPI, tables config.TableConfig) *ServiceOrderDynamoRepository {
	return &ServiceOrderDynamoRepository{ddb: ddb, tables: Tables(tables)}
}

// NextOrderNumber increments the counter atomically.
func (r *ServiceOrderDynamoRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tables.Counters),
		Key:                       keyOf("name", orderNumberCounter),
		UpdateExpression:          aws.String("ADD #value :one"),
		ExpressionAttributeNames:  map[string]string{"#value": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":one": &types.AttributeValueMemberN{Value: "1"}},
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}
	n, ok := out.Attributes["value"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("counter %s: missing value", orderNumberCounter)
	}
	return strconv.ParseInt(n.Value, 10, 64)
}

func (r *ServiceOrderDynamoRepository) Create(ctx context.Context, order entities.ServiceOrder, entry entities.StatusHistoryEntry) (entities.ServiceOrder, error) {
	orderAV, err := attributevalue.MarshalMap(toServiceOrderItem(order))
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	entryPut, err := r.historyPut(entry)
	if err != nil {
		return entities.ServiceOrder{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.tables.Orders),
				Item:                     orderAV,
				ConditionExpression:      aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			}},
			entryPut,
		},
	})
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	return order, nil
}

func (r *ServiceOrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.ServiceOrder, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tables.Orders),
		Key:            keyOf("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if len(out.Item) == 0 {
		return entities.ServiceOrder{}, nil
	}

	var it serviceOrderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.ServiceOrder{}, err
	}
	return fromServiceOrderItem(it), nil
}

// GetByApprovalToken resolves the token through the index, then re-reads the
// order consistently: the index may still hold a token that was replaced.
func (r *ServiceOrderDynamoRepository) GetByApprovalToken(ctx context.Context, token string) (entities.ServiceOrder, error) {
	type ref struct {
		ID string `dynamodbav:"id"`
	}
	refs, err := queryAll[ref](ctx, r.ddb, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tables.Orders),
		IndexName:                 aws.String(ordersApprovalTokenIndex),
		KeyConditionExpression:    aws.String("#approval_token = :token"),
		ExpressionAttributeNames:  map[string]string{"#approval_token": "approval_token"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":token": stringValue(token)},
	})
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	for _, ref := range refs {
		order, err := r.GetByID(ctx, ref.ID)
		if err != nil {
			return entities.ServiceOrder{}, err
		}
		if order.ID != "" && order.ApprovalToken == token {
			return order, nil
		}
	}
	return entities.ServiceOrder{}, nil
}

func (r *ServiceOrderDynamoRepository) SaveTransition(ctx context.Context, id string, patch entities.OrderPatch, entry entities.StatusHistoryEntry) (entities.ServiceOrder, error) {
	update := r.orderUpdate(id, patch, "attribute_exists(#id)", nil, map[string]string{"#id": "id"})
	entryPut, err := r.historyPut(entry)
	if err != nil {
		return entities.ServiceOrder{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{{Update: update}, entryPut},
	})
	if err != nil {
		if isTransactionConditionFailed(err) {
			return entities.ServiceOrder{}, r.guardMiss(ctx, id, patch)
		}
		return entities.ServiceOrder{}, err
	}
	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return entities.ServiceOrder{}, fmt.Errorf("%w: %w", interfaces.ErrReloadFailed, err)
	}
	return updated, nil
}

func (r *ServiceOrderDynamoRepository) SaveDiscount(ctx context.Context, id string, patch entities.OrderPatch) (entities.ServiceOrder, error) {
	update := r.orderUpdate(id, patch, "attribute_exists(#id)", nil, map[string]string{"#id": "id"})
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 update.TableName,
		Key:                       update.Key,
		ConditionExpression:       update.ConditionExpression,
		UpdateExpression:          update.UpdateExpression,
		ExpressionAttributeValues: update.ExpressionAttributeValues,
		ExpressionAttributeNames:  update.ExpressionAttributeNames,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.ServiceOrder{}, r.guardMiss(ctx, id, patch)
		}
		return entities.ServiceOrder{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.ServiceOrder{}, nil
	}
	var it serviceOrderItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.ServiceOrder{}, err
	}
	return fromServiceOrderItem(it), nil
}

func (r *ServiceOrderDynamoRepository) SaveApproval(ctx context.Context, token string, patch entities.OrderPatch, approval entities.ApprovalHistoryEntry, entry entities.StatusHistoryEntry) (entities.ServiceOrder, bool, error) {
	approvalAV, err := attributevalue.MarshalMap(toApprovalItem(approval))
	if err != nil {
		return entities.ServiceOrder{}, false, err
	}
	entryPut, err := r.historyPut(entry)
	if err != nil {
		return entities.ServiceOrder{}, false, err
	}
	return r.decide(ctx, token, patch, entryPut, types.TransactWriteItem{Put: &types.Put{
		TableName:                aws.String(r.tables.Approvals),
		Item:                     approvalAV,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	}})
}

func (r *ServiceOrderDynamoRepository) SaveRejection(ctx context.Context, token string, patch entities.OrderPatch, entry entities.StatusHistoryEntry) (entities.ServiceOrder, bool, error) {
	entryPut, err := r.historyPut(entry)
	if err != nil {
		return entities.ServiceOrder{}, false, err
	}
	return r.decide(ctx, token, patch, entryPut)
}

// decide applies a client decision guarded by the awaiting-decision
// condition, so that at most one decision commits per token.
func (r *ServiceOrderDynamoRepository) decide(ctx context.Context, token string, patch entities.OrderPatch, writes ...types.TransactWriteItem) (entities.ServiceOrder, bool, error) {
	order, err := r.GetByApprovalToken(ctx, token)
	if err != nil {
		return entities.ServiceOrder{}, false, err
	}
	if order.ID == "" {
		return entities.ServiceOrder{}, false, nil
	}

	update := r.orderUpdate(order.ID, patch,
		"#approval_token = :token AND #budget_approved = :not_approved AND #status = :awaiting",
		map[string]types.AttributeValue{
			":token":        stringValue(token),
			":not_approved": &types.AttributeValueMemberBOOL{Value: false},
			":awaiting":     stringValue(string(entities.OrderStatusAwaitingApproval)),
		},
		map[string]string{"#approval_token": "approval_token", "#budget_approved": "budget_approved", "#status": "status"},
	)
	items := append([]types.TransactWriteItem{{Update: update}}, writes...)

	if _, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		if isTransactionConditionFailed(err) {
			return entities.ServiceOrder{}, false, r.decisionGuardMiss(ctx, token, order.ID, patch)
		}
		return entities.ServiceOrder{}, false, err
	}
	updated, err := r.GetByID(ctx, order.ID)
	if err != nil {
		logger.Warn("decision committed, re-read failed",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return patch.Apply(order), true, nil
	}
	return updated, true, nil
}

// guardMiss explains a failed update condition: nil when the order is gone,
// ErrCostsChanged when it still exists, so the guard is what failed.
func (r *ServiceOrderDynamoRepository) guardMiss(ctx context.Context, id string, patch entities.OrderPatch) error {
	if patch.Guard == nil {
		return nil
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.ID != "" {
		return interfaces.ErrCostsChanged
	}
	return nil
}

// decisionGuardMiss tells a lost decision race (nil) from a decision that is
// still open, which leaves the cost guard as the condition that failed.
func (r *ServiceOrderDynamoRepository) decisionGuardMiss(ctx context.Context, token, id string, patch entities.OrderPatch) error {
	if patch.Guard == nil {
		return nil
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.ApprovalToken == token && !current.BudgetApproved &&
		current.Status == entities.OrderStatusAwaitingApproval {
		return interfaces.ErrCostsChanged
	}
	return nil
}

func (r *ServiceOrderDynamoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tables.Orders),
		Key:       keyOf("id", id),
	})
	return err
}

func (r *ServiceOrderDynamoRepository) historyPut(entry entities.StatusHistoryEntry) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(toStatusHistoryItem(entry))
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{Put: &types.Put{
		TableName:                aws.String(r.tables.StatusHistory),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	}}, nil
}

func (r *ServiceOrderDynamoRepository) orderUpdate(id string, patch entities.OrderPatch, condition string, condValues map[string]types.AttributeValue, condNames map[string]string) *types.Update {
	expr, names, values := patchExpression(patch)
	for k, v := range condValues {
		values[k] = v
	}
	if guard, guardNames, guardValues := guardCondition(patch.Guard); guard != "" {
		condition += " AND " + guard
		condNames = mergeNames(condNames, guardNames)
		for k, v := range guardValues {
			values[k] = v
		}
	}
	return &types.Update{
		TableName:                 aws.String(r.tables.Orders),
		Key:                       keyOf("id", id),
		ConditionExpression:       aws.String(condition),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  mergeNames(names, condNames),
		ExpressionAttributeValues: values,
	}
}

// guardCondition pins the stored cost figures to the guarded ones. An absent
// figure must still be absent.
func guardCondition(g *entities.CostGuard) (string, map[string]string, map[string]types.AttributeValue) {
	if g == nil {
		return "", nil, nil
	}
	var conds []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	pin := func(attr string, v *float64) {
		names["#"+attr] = attr
		if v == nil {
			conds = append(conds, fmt.Sprintf("attribute_not_exists(#%s)", attr))
			return
		}
		values[":read_"+attr] = numberValue(*v)
		conds = append(conds, fmt.Sprintf("#%s = :read_%s", attr, attr))
	}
	pin("labor_cost", g.LaborCost)
	pin("parts_cost", g.PartsCost)
	pin("discount_amount", g.DiscountAmount)
	return strings.Join(conds, " AND "), names, values
}

// patchExpression renders an OrderPatch as SET and REMOVE clauses.
func patchExpression(p entities.OrderPatch) (string, map[string]string, map[string]types.AttributeValue) {
	var sets, removes []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	set := func(attr string, v types.AttributeValue) {
		names["#"+attr] = attr
		values[":"+attr] = v
		sets = append(sets, fmt.Sprintf("#%s = :%s", attr, attr))
	}
	remove := func(attr string) {
		names["#"+attr] = attr
		removes = append(removes, "#"+attr)
	}

	if p.Status != nil {
		set("status", stringValue(string(*p.Status)))
	}
	if p.LaborCost != nil {
		set("labor_cost", numberValue(*p.LaborCost))
	}
	if p.PartsCost != nil {
		set("parts_cost", numberValue(*p.PartsCost))
	}
	if p.DiscountAmount != nil {
		set("discount_amount", numberValue(*p.DiscountAmount))
	}
	if p.ClearDiscountReason {
		remove("discount_reason")
	} else if p.DiscountReason != nil {
		set("discount_reason", stringValue(*p.DiscountReason))
	}
	if p.TotalCost != nil {
		set("total_cost", numberValue(*p.TotalCost))
	}
	if p.ApprovalToken != nil {
		if *p.ApprovalToken == "" {
			remove("approval_token")
		} else {
			set("approval_token", stringValue(*p.ApprovalToken))
		}
	}
	if p.BudgetApproved != nil {
		set("budget_approved", &types.AttributeValueMemberBOOL{Value: *p.BudgetApproved})
	}
	if p.ClearApprovedAt {
		remove("approved_at")
	} else if p.ApprovedAt != nil {
		set("approved_at", stringValue(formatTime(*p.ApprovedAt)))
	}
	if p.CompletedAt != nil {
		set("completed_at", stringValue(formatTime(*p.CompletedAt)))
	}
	if !p.UpdatedAt.IsZero() {
		set("updated_at", stringValue(formatTime(p.UpdatedAt)))
	}

	var expr []string
	if len(sets) > 0 {
		expr = append(expr, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		expr = append(expr, "REMOVE "+strings.Join(removes, ", "))
	}
	return strings.Join(expr, " "), names, values
}

func toServiceOrderItem(o entities.ServiceOrder) serviceOrderItem {
	return serviceOrderItem{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		ClientID:            o.ClientID,
		Equipment:           o.Equipment,
		Brand:               o.Brand,
		Model:               o.Model,
		SerialNumber:        o.SerialNumber,
		ReportedIssue:       o.ReportedIssue,
		Status:              string(o.Status),
		LaborCost:           o.LaborCost,
		PartsCost:           o.PartsCost,
		DiscountAmount:      o.DiscountAmount,
		DiscountReason:      o.DiscountReason,
		TotalCost:           o.TotalCost,
		ApprovalToken:       o.ApprovalToken,
		BudgetApproved:      o.BudgetApproved,
		ApprovedAt:          formatTimePtr(o.ApprovedAt),
		EntryDate:           formatTime(o.EntryDate),
		EstimatedCompletion: formatTimePtr(o.EstimatedCompletion),
		CompletedAt:         formatTimePtr(o.CompletedAt),
		CreatedAt:           formatTime(o.CreatedAt),
		UpdatedAt:           formatTime(o.UpdatedAt),
	}
}

func fromServiceOrderItem(it serviceOrderItem) entities.ServiceOrder {
	return entities.ServiceOrder{
		ID:                  it.ID,
		OrderNumber:         it.OrderNumber,
		ClientID:            it.ClientID,
		Equipment:           it.Equipment,
		Brand:               it.Brand,
		Model:               it.Model,
		SerialNumber:        it.SerialNumber,
		ReportedIssue:       it.ReportedIssue,
		Status:              entities.OrderStatus(it.Status),
		LaborCost:           it.LaborCost,
		PartsCost:           it.PartsCost,
		DiscountAmount:      it.DiscountAmount,
		DiscountReason:      it.DiscountReason,
		TotalCost:           it.TotalCost,
		ApprovalToken:       it.ApprovalToken,
		BudgetApproved:      it.BudgetApproved,
		ApprovedAt:          parseTimePtr(it.ApprovedAt),
		EntryDate:           parseTime(it.EntryDate),
		EstimatedCompletion: parseTimePtr(it.EstimatedCompletion),
		CompletedAt:         parseTimePtr(it.CompletedAt),
		CreatedAt:           parseTime(it.CreatedAt),
		UpdatedAt:           parseTime(it.UpdatedAt),
	}
}
