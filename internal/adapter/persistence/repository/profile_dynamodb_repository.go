package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"assistec/internal/config"
	"assistec/internal/domain/entities"
	"assistec/internal/usecase/interfaces"
)

type profileItem struct {
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name,omitempty"`
	Phone     string `dynamodbav:"phone,omitempty"`
	Email     string `dynamodbav:"email,omitempty"`
	CreatedAt string `dynamodbav:"created_at"`
}

type ProfileDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IProfileRepository = (*ProfileDynamoRepository)(nil)

func NewProfileDynamoRepository(ddb DynamoAPI, tables config.TableConfig) *ProfileDynamoRepository {
	return &ProfileDynamoRepository{ddb: ddb, tableName: Tables(tables).Profiles}
}

func (r *ProfileDynamoRepository) Create(ctx context.Context, p entities.Profile) (entities.Profile, error) {
	av, err := attributevalue.MarshalMap(profileItem{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		CreatedAt: formatTime(p.CreatedAt),
	})
	if err != nil {
		return entities.Profile{}, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return entities.Profile{}, err
	}
	return p, nil
}

func (r *ProfileDynamoRepository) GetByID(ctx context.Context, id string) (entities.Profile, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            keyOf("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Profile{}, err
	}
	if len(out.Item) == 0 {
		return entities.Profile{}, nil
	}
	var it profileItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Profile{}, err
	}
	return entities.Profile{
		ID:        it.ID,
		Name:      it.Name,
		Phone:     it.Phone,
		Email:     it.Email,
		CreatedAt: parseTime(it.CreatedAt),
	}, nil
}
