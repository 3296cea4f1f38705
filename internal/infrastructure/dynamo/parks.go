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

// ParkRepo provides typed DynamoDB operations for the parks table and the
// park_places pointer table that keeps one park per place ID.
type ParkRepo struct {
	client     *dynamodb.Client
	tableName  string
	placeTable string
}

func NewParkRepo(client *dynamodb.Client, tableName, placeTable string) *ParkRepo {
	return &ParkRepo{client: client, tableName: tableName, placeTable: placeTable}
}

// placePointer is the park_places item mapping a place ID to its park.
type placePointer struct {
	PlaceID string `dynamodbav:"place_id"`
	ParkID  string `dynamodbav:"park_id"`
}

// Put inserts a new park together with its place pointer. Returns
// ErrConflict if the park ID or the place ID is taken.
func (r *ParkRepo) Put(ctx context.Context, p *domain.Park) error {
	input, err := buildPutParkTx(r.tableName, r.placeTable, p)
	if err != nil {
		return err
	}
	_, err = r.client.TransactWriteItems(ctx, input)
	return parkTxErr(err, "park for place "+p.PlaceID+" already exists")
}

func (r *ParkRepo) Get(ctx context.Context, parkID string) (*domain.Park, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldParkID, parkID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("park not found: %w", domain.ErrNotFound)
	}
	var p domain.Park
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByPlaceID follows the place pointer with strongly consistent reads, so a
// park stored a moment ago is always found.
func (r *ParkRepo) GetByPlaceID(ctx context.Context, placeID string) (*domain.Park, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.placeTable),
		Key:            strKey(fieldPlaceID, placeID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("park not found: %w", domain.ErrNotFound)
	}
	var ptr placePointer
	if err := attributevalue.UnmarshalMap(out.Item, &ptr); err != nil {
		return nil, err
	}
	return r.Get(ctx, ptr.ParkID)
}

func (r *ParkRepo) List(ctx context.Context) ([]domain.Park, error) {
	return scanAll[domain.Park](ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
}

// Update applies updates to an existing park. Returns ErrNotFound when the
// park does not exist and ErrConflict when a new place ID is already taken.
func (r *ParkRepo) Update(ctx context.Context, parkID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	if placeID, ok := updates[fieldPlaceID].(string); ok {
		current, err := r.Get(ctx, parkID)
		if err != nil {
			return err
		}
		if current.PlaceID != placeID {
			input, err := buildMovePlaceTx(r.tableName, r.placeTable, parkID, current.PlaceID, placeID, updates)
			if err != nil {
				return err
			}
			_, err = r.client.TransactWriteItems(ctx, input)
			return parkTxErr(err, "park for place "+placeID+" already exists")
		}
	}
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldParkID, parkID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(park_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("park not found: %w", domain.ErrNotFound)
	}
	return err
}

// Delete removes the park and releases its place ID.
func (r *ParkRepo) Delete(ctx context.Context, parkID string) error {
	current, err := r.Get(ctx, parkID)
	if err != nil {
		return err
	}
	_, err = r.client.TransactWriteItems(ctx, buildDeleteParkTx(r.tableName, r.placeTable, parkID, current.PlaceID))
	return parkTxErr(err, "park "+parkID+" changed concurrently")
}

func buildDeleteParkTx(table, placeTable, parkID, placeID string) *dynamodb.TransactWriteItemsInput {
	items := []types.TransactWriteItem{
		{Delete: &types.Delete{
			TableName:           aws.String(table),
			Key:                 strKey(fieldParkID, parkID),
			ConditionExpression: aws.String("attribute_exists(park_id)"),
		}},
	}
	if placeID != "" {
		items = append(items, releasePlace(placeTable, placeID, parkID))
	}
	return &dynamodb.TransactWriteItemsInput{TransactItems: items}
}

// buildPutParkTx inserts p and claims its place ID in one transaction.
func buildPutParkTx(table, placeTable string, p *domain.Park) (*dynamodb.TransactWriteItemsInput, error) {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("marshal park: %w", err)
	}
	claim, err := claimPlace(placeTable, p.PlaceID, p.ParkID)
	if err != nil {
		return nil, err
	}
	return &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(table),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(park_id)"),
			}},
			claim,
		},
	}, nil
}

// buildMovePlaceTx applies updates to the park while moving its place
// pointer from oldPlace to newPlace.
func buildMovePlaceTx(table, placeTable, parkID, oldPlace, newPlace string, updates map[string]interface{}) (*dynamodb.TransactWriteItemsInput, error) {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return nil, err
	}
	claim, err := claimPlace(placeTable, newPlace, parkID)
	if err != nil {
		return nil, err
	}
	items := []types.TransactWriteItem{
		{Update: &types.Update{
			TableName:                 aws.String(table),
			Key:                       strKey(fieldParkID, parkID),
			UpdateExpression:          aws.String(ue.Expr),
			ConditionExpression:       aws.String("attribute_exists(park_id)"),
			ExpressionAttributeNames:  ue.Names,
			ExpressionAttributeValues: ue.Values,
		}},
		claim,
	}
	if oldPlace != "" {
		items = append(items, releasePlace(placeTable, oldPlace, parkID))
	}
	return &dynamodb.TransactWriteItemsInput{TransactItems: items}, nil
}

func claimPlace(placeTable, placeID, parkID string) (types.TransactWriteItem, error) {
	ptr, err := attributevalue.MarshalMap(placePointer{PlaceID: placeID, ParkID: parkID})
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("marshal place pointer: %w", err)
	}
	return types.TransactWriteItem{Put: &types.Put{
		TableName:           aws.String(placeTable),
		Item:                ptr,
		ConditionExpression: aws.String("attribute_not_exists(place_id)"),
	}}, nil
}

// releasePlace deletes the place pointer only while it still names parkID.
func releasePlace(placeTable, placeID, parkID string) types.TransactWriteItem {
	return types.TransactWriteItem{Delete: &types.Delete{
		TableName:                 aws.String(placeTable),
		Key:                       strKey(fieldPlaceID, placeID),
		ConditionExpression:       aws.String("#pid = :pid"),
		ExpressionAttributeNames:  map[string]string{"#pid": fieldParkID},
		ExpressionAttributeValues: map[string]types.AttributeValue{":pid": &types.AttributeValueMemberS{Value: parkID}},
	}}
}

func parkTxErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		return fmt.Errorf("%s: %w", msg, domain.ErrConflict)
	}
	return err
}
