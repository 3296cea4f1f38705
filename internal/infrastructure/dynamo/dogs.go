package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogli-api/internal/domain"
)

// DogRepo provides typed DynamoDB operations for the dogs table.
type DogRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDogRepo(client *dynamodb.Client, tableName string) *DogRepo {
	return &DogRepo{client: client, tableName: tableName}
}

func (r *DogRepo) Put(ctx context.Context, d *domain.Dog) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal dog: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DogRepo) Get(ctx context.Context, dogID string) (*domain.Dog, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("dog_id", dogID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("dog not found: %w", domain.ErrNotFound)
	}
	var d domain.Dog
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DogRepo) List(ctx context.Context) ([]domain.Dog, error) {
	return scanAll[domain.Dog](ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
}

func (r *DogRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Dog, error) {
	cond, names, values := stringEq("owner_id", ownerID)
	return queryAll[domain.Dog](ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("owner_id-index"),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
}

// Update applies updates to an existing dog. Returns ErrNotFound when the
// dog does not exist.
func (r *DogRepo) Update(ctx context.Context, dogID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("dog_id", dogID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(dog_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("dog not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *DogRepo) Delete(ctx context.Context, dogID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("dog_id", dogID),
	})
	return err
}

// Follow records that followerID follows followingID. Both dogs are updated
// in one transaction.
func (r *DogRepo) Follow(ctx context.Context, followerID, followingID string) error {
	return r.writeFollow(ctx, "ADD", followerID, followingID)
}

// Unfollow removes the follow relation written by Follow.
func (r *DogRepo) Unfollow(ctx context.Context, followerID, followingID string) error {
	return r.writeFollow(ctx, "DELETE", followerID, followingID)
}

func (r *DogRepo) writeFollow(ctx context.Context, op, followerID, followingID string) error {
	now, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			r.setMembership(op, followerID, fieldFollowing, followingID, now),
			r.setMembership(op, followingID, fieldFollowers, followerID, now),
		},
	})
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		return fmt.Errorf("dog not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *DogRepo) setMembership(op, dogID, attr, member string, now types.AttributeValue) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(r.tableName),
			Key:                 strKey("dog_id", dogID),
			UpdateExpression:    aws.String(fmt.Sprintf("%s #s :m SET #u = :now", op)),
			ConditionExpression: aws.String("attribute_exists(dog_id)"),
			ExpressionAttributeNames: map[string]string{
				"#s": attr,
				"#u": fieldUpdatedAt,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":m":   &types.AttributeValueMemberSS{Value: []string{member}},
				":now": now,
			},
		},
	}
}
