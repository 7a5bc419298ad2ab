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

const notificationSettingsID = "notification_settings"

type settingsItem struct {
	ID              string            `dynamodbav:"id"`
	Templates       map[string]string `dynamodbav:"templates,omitempty"`
	BusinessName    string            `dynamodbav:"business_name,omitempty"`
	BusinessAddress string            `dynamodbav:"business_address,omitempty"`
	BusinessHours   string            `dynamodbav:"business_hours,omitempty"`
	StaffWhatsApp   string            `dynamodbav:"staff_whatsapp,omitempty"`
	UpdatedAt       string            `dynamodbav:"updated_at"`
}

// SettingsDynamoRepository keeps a single settings document (PK id).
type SettingsDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.ISettingsRepository = (*SettingsDynamoRepository)(nil)

func NewSettingsDynamoRepository(ddb DynamoAPI, tables config.TableConfig) *SettingsDynamoRepository {
	return &SettingsDynamoRepository{ddb: ddb, tableName: Tables(tables).Settings}
}

func (r *SettingsDynamoRepository) GetNotificationSettings(ctx context.Context) (entities.NotificationSettings, bool, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            keyOf("id", notificationSettingsID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.NotificationSettings{}, false, err
	}
	if len(out.Item) == 0 {
		return entities.NotificationSettings{}, false, nil
	}

	var it settingsItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.NotificationSettings{}, false, err
	}
	templates := make(map[entities.TemplateKey]string, len(it.Templates))
	for k, v := range it.Templates {
		templates[entities.TemplateKey(k)] = v
	}
	return entities.NotificationSettings{
		Templates:       templates,
		BusinessName:    it.BusinessName,
		BusinessAddress: it.BusinessAddress,
		BusinessHours:   it.BusinessHours,
		StaffWhatsApp:   it.StaffWhatsApp,
		UpdatedAt:       parseTime(it.UpdatedAt),
	}, true, nil
}

func (r *SettingsDynamoRepository) SaveNotificationSettings(ctx context.Context, s entities.NotificationSettings) error {
	templates := make(map[string]string, len(s.Templates))
	for k, v := range s.Templates {
		if v != "" {
			templates[string(k)] = v
		}
	}
	av, err := attributevalue.MarshalMap(settingsItem{
		ID:              notificationSettingsID,
		Templates:       templates,
		BusinessName:    s.BusinessName,
		BusinessAddress: s.BusinessAddress,
		BusinessHours:   s.BusinessHours,
		StaffWhatsApp:   s.StaffWhatsApp,
		UpdatedAt:       formatTime(s.UpdatedAt),
	})
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}
