package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"maintenance-agent/internal/domain"
)

const (
	pkPrefix = "CONV#"
	skPrefix = "SUBJ#"
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Client stores conversation records in a single DynamoDB table keyed by
// normalized sender address (PK) and normalized subject (SK).
type Client struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

func itemKey(key domain.ConversationKey) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pkPrefix + key.Address},
		"SK": &types.AttributeValueMemberS{Value: skPrefix + key.Subject},
	}
}

// FindConversation returns the record for key, or false when none exists.
func (c *Client) FindConversation(ctx context.Context, key domain.ConversationKey) (domain.ConversationRecord, bool, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.tableName),
		Key:            itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.ConversationRecord{}, false, fmt.Errorf("repository: FindConversation get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.ConversationRecord{}, false, nil
	}
	rec, err := itemToRecord(out.Item)
	if err != nil {
		return domain.ConversationRecord{}, false, fmt.Errorf("repository: FindConversation decode: %w", err)
	}
	return rec, true, nil
}

// CreateConversation writes rec only if no record exists for its key.
func (c *Client) CreateConversation(ctx context.Context, rec domain.ConversationRecord) error {
	if err := c.put(ctx, rec, "attribute_not_exists(PK)"); err != nil {
		if isConditionFailure(err) {
			return domain.ErrConversationExists
		}
		return fmt.Errorf("repository: CreateConversation: %w", err)
	}
	return nil
}

// UpdateConversation replaces an existing record. Concurrent updates to the
// same key are last-write-wins.
func (c *Client) UpdateConversation(ctx context.Context, rec domain.ConversationRecord) error {
	if err := c.put(ctx, rec, "attribute_exists(PK)"); err != nil {
		if isConditionFailure(err) {
			return domain.ErrConversationNotFound
		}
		return fmt.Errorf("repository: UpdateConversation: %w", err)
	}
	return nil
}

func (c *Client) put(ctx context.Context, rec domain.ConversationRecord, condition string) error {
	key := rec.Key()
	if key.Address == "" || key.Subject == "" {
		return errors.New("address and subject are required")
	}
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                recordItem(rec),
		ConditionExpression: aws.String(condition),
	})
	return err
}

func isConditionFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func recordItem(rec domain.ConversationRecord) map[string]types.AttributeValue {
	item := itemKey(rec.Key())
	item["address"] = &types.AttributeValueMemberS{Value: rec.Address}
	item["domain"] = &types.AttributeValueMemberS{Value: rec.Domain}
	item["company"] = &types.AttributeValueMemberS{Value: rec.Company}
	item["subject"] = &types.AttributeValueMemberS{Value: rec.Subject}
	item["status"] = &types.AttributeValueMemberS{Value: string(rec.Status)}
	item["lastUpdated"] = &types.AttributeValueMemberS{Value: rec.LastUpdated}
	item["searchKey"] = &types.AttributeValueMemberS{Value: rec.SearchKey()}
	return item
}

// itemToRecord converts a DynamoDB attribute map to a ConversationRecord.
func itemToRecord(item map[string]types.AttributeValue) (domain.ConversationRecord, error) {
	address, err := strAttr(item, "address")
	if err != nil {
		return domain.ConversationRecord{}, err
	}
	subject, err := strAttr(item, "subject")
	if err != nil {
		return domain.ConversationRecord{}, err
	}
	status, err := strAttr(item, "status")
	if err != nil {
		return domain.ConversationRecord{}, err
	}
	senderDomain, _ := strAttr(item, "domain") // derived, allow empty
	company, _ := strAttr(item, "company")
	lastUpdated, _ := strAttr(item, "lastUpdated")

	return domain.ConversationRecord{
		Address:     address,
		Domain:      senderDomain,
		Company:     company,
		Subject:     subject,
		Status:      domain.Status(status),
		LastUpdated: lastUpdated,
	}, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
