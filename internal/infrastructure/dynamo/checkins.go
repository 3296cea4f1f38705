package dynamo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogli-api/internal/domain"
)

// maxTransactItems is the DynamoDB limit on actions per TransactWriteItems call.
const maxTransactItems = 100

// CheckInRepo provides typed DynamoDB operations for the checkins table and
// the active_checkins pointer table that serialises check-ins per (user, dog).
type CheckInRepo struct {
	client      *dynamodb.Client
	tableName   string
	activeTable string
}

func NewCheckInRepo(client *dynamodb.Client, tableName, activeTable string) *CheckInRepo {
	return &CheckInRepo{client: client, tableName: tableName, activeTable: activeTable}
}

// activePointer is the active_checkins item for one (user, dog) pair.
type activePointer struct {
	PairKey   string    `dynamodbav:"pair_key"`
	CheckInID string    `dynamodbav:"checkin_id"`
	UserID    string    `dynamodbav:"user_id"`
	DogID     string    `dynamodbav:"dog_id"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

func pairKey(userID, dogID string) string {
	return userID + "#" + dogID
}

func (r *CheckInRepo) Get(ctx context.Context, checkInID string) (*domain.CheckIn, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldCheckInID, checkInID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("checkin not found: %w", domain.ErrNotFound)
	}
	var c domain.CheckIn
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActiveByUserAndDog returns the active check-ins of one dog as seen by
// the user_id index. Index reads are eventually consistent; ReplaceActive
// covers the gap through the pointer item.
func (r *CheckInRepo) ListActiveByUserAndDog(ctx context.Context, userID, dogID string) ([]domain.CheckIn, error) {
	return queryAll[domain.CheckIn](ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-arrival_time-index"),
		KeyConditionExpression: aws.String("#uid = :uid"),
		FilterExpression:       aws.String("#dog = :dog AND #act = :t"),
		ExpressionAttributeNames: map[string]string{
			"#uid": "user_id",
			"#dog": "dog_id",
			"#act": fieldIsActive,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
			":dog": &types.AttributeValueMemberS{Value: dogID},
			":t":   &types.AttributeValueMemberBOOL{Value: true},
		},
	})
}

// ListByPark returns the park's check-ins whose active flag equals active,
// most recent arrival first.
func (r *CheckInRepo) ListByPark(ctx context.Context, parkID string, active bool) ([]domain.CheckIn, error) {
	return queryAll[domain.CheckIn](ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("park_id-arrival_time-index"),
		KeyConditionExpression: aws.String("#pid = :pid"),
		FilterExpression:       aws.String("#act = :a"),
		ExpressionAttributeNames: map[string]string{
			"#pid": "park_id",
			"#act": fieldIsActive,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: parkID},
			":a":   &types.AttributeValueMemberBOOL{Value: active},
		},
		ScanIndexForward: aws.Bool(false),
	})
}

// ListByUser returns every check-in of the user, most recent arrival first.
func (r *CheckInRepo) ListByUser(ctx context.Context, userID string) ([]domain.CheckIn, error) {
	cond, names, values := stringEq("user_id", userID)
	return queryAll[domain.CheckIn](ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-arrival_time-index"),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(false),
	})
}

// ReplaceActive deactivates prev and inserts next as the single active
// check-in of (userID, dogID) in one transaction. The pointer item is
// compare-and-set against the value read here, so a concurrent replacement
// for the same pair cancels the transaction and ErrConflict is returned.
func (r *CheckInRepo) ReplaceActive(ctx context.Context, userID, dogID string, prev []domain.CheckIn, next *domain.CheckIn) error {
	ptr, err := r.getPointer(ctx, userID, dogID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(prev)+1)
	for _, c := range prev {
		ids = append(ids, c.CheckInID)
	}
	expected := ""
	if ptr != nil {
		expected = ptr.CheckInID
		if !slices.Contains(ids, expected) {
			// The index may lag behind the pointer; trust a consistent read.
			cur, err := r.Get(ctx, expected)
			switch {
			case err == nil && cur.IsActive:
				ids = append(ids, expected)
			case err != nil && !errors.Is(err, domain.ErrNotFound):
				return err
			}
		}
	}

	input, err := buildReplaceActiveTx(r.tableName, r.activeTable, expected, ids, next)
	if err != nil {
		return err
	}
	_, err = r.client.TransactWriteItems(ctx, input)
	return replaceErr(err)
}

// Close marks the check-in inactive and stamps its leave time.
func (r *CheckInRepo) Close(ctx context.Context, checkInID string, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldIsActive:  false,
		fieldLeaveTime: at,
		fieldUpdatedAt: at,
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldCheckInID, checkInID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(checkin_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("checkin not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *CheckInRepo) getPointer(ctx context.Context, userID, dogID string) (*activePointer, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.activeTable),
		Key:            strKey(fieldPairKey, pairKey(userID, dogID)),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}
	var p activePointer
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// buildReplaceActiveTx builds the transaction that deactivates every ID in
// deactivate (other than next), inserts next and moves the pair's pointer
// from expected to next. An empty expected requires that no pointer exists.
func buildReplaceActiveTx(table, activeTable, expected string, deactivate []string, next *domain.CheckIn) (*dynamodb.TransactWriteItemsInput, error) {
	seen := map[string]bool{next.CheckInID: true}
	ids := make([]string, 0, len(deactivate))
	for _, id := range deactivate {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids)+2 > maxTransactItems {
		return nil, fmt.Errorf("too many active checkins to replace: %d", len(ids))
	}

	updatedAt, err := attributevalue.Marshal(next.UpdatedAt)
	if err != nil {
		return nil, err
	}
	items := make([]types.TransactWriteItem, 0, len(ids)+2)
	for _, id := range ids {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(table),
				Key:                 strKey(fieldCheckInID, id),
				UpdateExpression:    aws.String("SET #act = :f, #upd = :now"),
				ConditionExpression: aws.String("attribute_exists(checkin_id)"),
				ExpressionAttributeNames: map[string]string{
					"#act": fieldIsActive,
					"#upd": fieldUpdatedAt,
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":f":   &types.AttributeValueMemberBOOL{Value: false},
					":now": updatedAt,
				},
			},
		})
	}

	item, err := attributevalue.MarshalMap(next)
	if err != nil {
		return nil, fmt.Errorf("marshal checkin: %w", err)
	}
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(table),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(checkin_id)"),
		},
	})

	ptr, err := attributevalue.MarshalMap(activePointer{
		PairKey:   pairKey(next.UserID, next.DogID),
		CheckInID: next.CheckInID,
		UserID:    next.UserID,
		DogID:     next.DogID,
		UpdatedAt: next.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal active pointer: %w", err)
	}
	put := &types.Put{TableName: aws.String(activeTable), Item: ptr}
	if expected == "" {
		put.ConditionExpression = aws.String("attribute_not_exists(pair_key)")
	} else {
		put.ConditionExpression = aws.String("#cid = :expected")
		put.ExpressionAttributeNames = map[string]string{"#cid": fieldCheckInID}
		put.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberS{Value: expected},
		}
	}
	items = append(items, types.TransactWriteItem{Put: put})

	return &dynamodb.TransactWriteItemsInput{TransactItems: items}, nil
}

// replaceErr maps a cancelled transaction to ErrConflict so callers can retry.
func replaceErr(err error) error {
	if err == nil {
		return nil
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		return fmt.Errorf("replace active checkin: %w", domain.ErrConflict)
	}
	return err
}
