// Where: cli/internal/store/aws_clients.go
// What: AWS SDK adapters for the index and blob backends.
// Why: Map internal store types to SDK types.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type awsDynamoClient struct {
	client *dynamodb.Client
	table  string
}

func (c awsDynamoClient) Query(ctx context.Context, scope string) ([]IndexItem, error) {
	if c.client == nil {
		return nil, fmt.Errorf("dynamodb client is nil")
	}
	resp, err := c.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.table),
		KeyConditionExpression: aws.String("#scope = :scope"),
		ExpressionAttributeNames: map[string]string{
			"#scope": "scope",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":scope": &types.AttributeValueMemberS{Value: scope},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]IndexItem, 0, len(resp.Items))
	for _, attrs := range resp.Items {
		items = append(items, IndexItem{
			Scope:     stringAttr(attrs, "scope"),
			Kind:      stringAttr(attrs, "kind"),
			HandleID:  stringAttr(attrs, "handle_id"),
			BlobKey:   stringAttr(attrs, "blob_key"),
			UpdatedAt: stringAttr(attrs, "updated_at"),
		})
	}
	return items, nil
}

func (c awsDynamoClient) Put(ctx context.Context, item IndexItem) error {
	if c.client == nil {
		return fmt.Errorf("dynamodb client is nil")
	}
	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item: map[string]types.AttributeValue{
			"scope":      &types.AttributeValueMemberS{Value: item.Scope},
			"kind":       &types.AttributeValueMemberS{Value: item.Kind},
			"handle_id":  &types.AttributeValueMemberS{Value: item.HandleID},
			"blob_key":   &types.AttributeValueMemberS{Value: item.BlobKey},
			"updated_at": &types.AttributeValueMemberS{Value: item.UpdatedAt},
		},
	})
	return err
}

func (c awsDynamoClient) Delete(ctx context.Context, scope, kind string) error {
	if c.client == nil {
		return fmt.Errorf("dynamodb client is nil")
	}
	_, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.table),
		Key: map[string]types.AttributeValue{
			"scope": &types.AttributeValueMemberS{Value: scope},
			"kind":  &types.AttributeValueMemberS{Value: kind},
		},
	})
	return err
}

func stringAttr(attrs map[string]types.AttributeValue, name string) string {
	if attr, ok := attrs[name].(*types.AttributeValueMemberS); ok {
		return attr.Value
	}
	return ""
}

type awsS3Client struct {
	client *s3.Client
	bucket string
}

func (c awsS3Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	resp, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c awsS3Client) Put(ctx context.Context, key string, body []byte) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	return err
}

// Delete is idempotent: S3 treats deleting a missing key as success.
func (c awsS3Client) Delete(ctx context.Context, key string) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	var notFound *s3types.NoSuchKey
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}
