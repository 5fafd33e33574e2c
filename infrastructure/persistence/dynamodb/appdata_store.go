package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"workspace-backend/application/ports"
	"workspace-backend/domain/core/aggregates"
	"workspace-backend/domain/core/entities"
	pkgerrors "workspace-backend/pkg/errors"
	"workspace-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// AppDataStore implements the AppDataStore port using DynamoDB.
// Each user owns exactly one item: PK USER#<id>, SK APPDATA.
type AppDataStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewAppDataStore creates a new DynamoDB-backed record store
func NewAppDataStore(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.AppDataStore {
	return &AppDataStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// appDataItem is the DynamoDB item structure for a user's aggregate record
type appDataItem struct {
	PK             string                           `dynamodbav:"PK"`
	SK             string                           `dynamodbav:"SK"`
	EntityType     string                           `dynamodbav:"EntityType"`
	UserID         string                           `dynamodbav:"UserID"`
	Workspaces     []entities.Workspace             `dynamodbav:"workspaces"`
	PageData       map[string][]entities.TreeNode   `dynamodbav:"page_data"`
	Pages          []entities.Page                  `dynamodbav:"pages"`
	WorkspacePages map[string][]aggregates.PageRef  `dynamodbav:"workspace_pages"`
	Documents      []entities.DocumentMeta          `dynamodbav:"documents"`
	UpdatedAt      string                           `dynamodbav:"UpdatedAt"`
}

// Get retrieves the user's aggregate record
func (s *AppDataStore) Get(ctx context.Context, userID string) (*aggregates.UserAppData, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       itemKey(userID),
	})
	if err != nil {
		s.logger.Error("Failed to get aggregate record",
			zap.Error(err),
			zap.String("userID", userID),
		)
		return nil, fmt.Errorf("failed to get app data: %w", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("app data")
	}

	var item appDataItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal app data: %w", err)
	}
	return fromItem(item), nil
}

// Insert writes a brand-new record, failing with CONFLICT if one exists
func (s *AppDataStore) Insert(ctx context.Context, userID string, data *aggregates.UserAppData) error {
	av, err := attributevalue.MarshalMap(toItem(userID, data))
	if err != nil {
		return fmt.Errorf("failed to marshal app data: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("app data record already exists")
		}
		s.logger.Error("Failed to insert aggregate record",
			zap.Error(err),
			zap.String("userID", userID),
		)
		return fmt.Errorf("failed to insert app data: %w", err)
	}

	s.logger.Info("Created default aggregate record", zap.String("userID", userID))
	return nil
}

// Update replaces the user's record with the given aggregate
func (s *AppDataStore) Update(ctx context.Context, userID string, data *aggregates.UserAppData) error {
	av, err := attributevalue.MarshalMap(toItem(userID, data))
	if err != nil {
		return fmt.Errorf("failed to marshal app data: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("Failed to save aggregate record",
			zap.Error(err),
			zap.String("userID", userID),
		)
		return fmt.Errorf("failed to save app data: %w", err)
	}
	return nil
}

func itemKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
		"SK": &types.AttributeValueMemberS{Value: "APPDATA"},
	}
}

func toItem(userID string, data *aggregates.UserAppData) appDataItem {
	return appDataItem{
		PK:             fmt.Sprintf("USER#%s", userID),
		SK:             "APPDATA",
		EntityType:     "APPDATA",
		UserID:         userID,
		Workspaces:     data.Workspaces,
		PageData:       data.PageData,
		Pages:          data.Pages,
		WorkspacePages: data.WorkspacePages,
		Documents:      data.Documents,
		UpdatedAt:      utils.NowRFC3339(),
	}
}

// fromItem rebuilds the aggregate, normalizing absent collections and
// decoded cell values so the round trip through the record format stays
// structurally equal
func fromItem(item appDataItem) *aggregates.UserAppData {
	data := &aggregates.UserAppData{
		Workspaces:     item.Workspaces,
		PageData:       item.PageData,
		Pages:          item.Pages,
		WorkspacePages: item.WorkspacePages,
		Documents:      item.Documents,
	}
	if data.Workspaces == nil {
		data.Workspaces = []entities.Workspace{}
	}
	if data.PageData == nil {
		data.PageData = map[string][]entities.TreeNode{}
	}
	if data.Pages == nil {
		data.Pages = []entities.Page{}
	}
	if data.WorkspacePages == nil {
		data.WorkspacePages = map[string][]aggregates.PageRef{}
	}
	if data.Documents == nil {
		data.Documents = []entities.DocumentMeta{}
	}
	for i := range data.Pages {
		normalizeCellValues(&data.Pages[i])
	}
	return data
}

// normalizeCellValues restores typed cell values on database blocks. The
// attribute marshaller decodes list cells as []interface{}, but multiselect
// cells are written as []string and must read back the same way.
func normalizeCellValues(page *entities.Page) {
	for bi := range page.Blocks {
		schema := page.Blocks[bi].DatabaseData
		if schema == nil {
			continue
		}
		for ri := range schema.Rows {
			for fieldID, value := range schema.Rows[ri].Values {
				items, ok := value.([]interface{})
				if !ok {
					continue
				}
				strs := make([]string, 0, len(items))
				for _, item := range items {
					s, ok := item.(string)
					if !ok {
						strs = nil
						break
					}
					strs = append(strs, s)
				}
				if strs != nil {
					schema.Rows[ri].Values[fieldID] = strs
				}
			}
		}
	}
}
