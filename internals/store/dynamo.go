// file: internals/store/dynamo.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

/* =========================================================
   DynamoConn: implementasi produksi di atas DynamoDB
========================================================= */

type DynamoConn struct {
	client *dynamodb.Client
}

func NewDynamoConn(client *dynamodb.Client) *DynamoConn {
	return &DynamoConn{client: client}
}

func (d *DynamoConn) Get(ctx context.Context, spec TableSpec, key Key) (Item, error) {
	ki, err := keyItem(spec, key)
	if err != nil {
		return nil, err
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(spec.Name),
		Key:            ki,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, mapDynamoErr(err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, spec.Name, avToken(ki[spec.PartitionKey]))
	}
	return out.Item, nil
}

func (d *DynamoConn) Query(ctx context.Context, spec TableSpec, partition any) ([]Item, error) {
	pk, err := toAttributeValue(partition)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal partition key: %v", ErrInternal, err)
	}

	var items []Item
	var startKey map[string]types.AttributeValue
	for {
		out, err := d.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(spec.Name),
			KeyConditionExpression:    aws.String(fmt.Sprintf("#%s = :%s", spec.PartitionKey, spec.PartitionKey)),
			ExpressionAttributeNames:  map[string]string{"#" + spec.PartitionKey: spec.PartitionKey},
			ExpressionAttributeValues: map[string]types.AttributeValue{":" + spec.PartitionKey: pk},
			ScanIndexForward:          aws.Bool(false), // terbaru dulu
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, mapDynamoErr(err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (d *DynamoConn) Scan(ctx context.Context, spec TableSpec) ([]Item, error) {
	var items []Item
	var startKey map[string]types.AttributeValue
	for page := 0; ; page++ {
		if page >= maxScanPages {
			return nil, fmt.Errorf("%w: scan %s melebihi %d halaman", ErrInternal, spec.Name, maxScanPages)
		}
		out, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(spec.Name),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, mapDynamoErr(err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (d *DynamoConn) Put(ctx context.Context, spec TableSpec, item Item, extra *Cond) error {
	condExpr, names, values, err := putCondition(spec, extra)
	if err != nil {
		return err
	}
	input := &dynamodb.PutItemInput{
		TableName:                aws.String(spec.Name),
		Item:                     item,
		ConditionExpression:      aws.String(condExpr),
		ExpressionAttributeNames: names,
	}
	if len(values) > 0 {
		input.ExpressionAttributeValues = values
	}
	if _, err := d.client.PutItem(ctx, input); err != nil {
		return mapDynamoErr(err)
	}
	return nil
}

func (d *DynamoConn) Update(ctx context.Context, spec TableSpec, key Key, sets map[string]any, extra *Cond) (Item, error) {
	ki, err := keyItem(spec, key)
	if err != nil {
		return nil, err
	}
	updateExpr, condExpr, names, values, err := buildUpdate(sets, nil, extra)
	if err != nil {
		return nil, err
	}
	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(spec.Name),
		Key:                       ki,
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}
	if condExpr != "" {
		input.ConditionExpression = aws.String(condExpr)
	}
	out, err := d.client.UpdateItem(ctx, input)
	if err != nil {
		return nil, mapDynamoErr(err)
	}
	return out.Attributes, nil
}

func (d *DynamoConn) Transact(ctx context.Context, ops []TxOp) error {
	writes := make([]types.TransactWriteItem, 0, len(ops))
	for _, op := range ops {
		if op.isPut() {
			condExpr, names, values, err := putCondition(op.Spec, op.Cond)
			if err != nil {
				return err
			}
			put := &types.Put{
				TableName:                aws.String(op.Spec.Name),
				Item:                     op.PutItem,
				ConditionExpression:      aws.String(condExpr),
				ExpressionAttributeNames: names,
			}
			if len(values) > 0 {
				put.ExpressionAttributeValues = values
			}
			writes = append(writes, types.TransactWriteItem{Put: put})
			continue
		}

		ki, err := keyItem(op.Spec, op.Key)
		if err != nil {
			return err
		}
		updateExpr, condExpr, names, values, err := buildUpdate(op.Sets, op.Plus, op.Cond)
		if err != nil {
			return err
		}
		upd := &types.Update{
			TableName:                 aws.String(op.Spec.Name),
			Key:                       ki,
			UpdateExpression:          aws.String(updateExpr),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		}
		if condExpr != "" {
			upd.ConditionExpression = aws.String(condExpr)
		}
		writes = append(writes, types.TransactWriteItem{Update: upd})
	}

	if _, err := d.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	}); err != nil {
		return mapDynamoErr(err)
	}
	return nil
}

// putCondition: guard duplicate key (attribute_not_exists pada partition key)
// digabung kondisi tambahan dari caller.
func putCondition(spec TableSpec, extra *Cond) (string, map[string]string, map[string]types.AttributeValue, error) {
	cond := Where().NotExists(spec.PartitionKey)
	if spec.SortKey != "" {
		cond = cond.NotExists(spec.SortKey)
	}
	cond = cond.And(extra)

	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	expr, err := cond.build(names, values)
	if err != nil {
		return "", nil, nil, err
	}
	return expr, names, values, nil
}

func mapDynamoErr(err error) error {
	var condFailed *types.ConditionalCheckFailedException
	if errors.As(err, &condFailed) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			code := aws.ToString(reason.Code)
			if code == "ConditionalCheckFailed" || code == "TransactionConflict" {
				return fmt.Errorf("%w: %v", ErrConflict, err)
			}
		}
	}
	var inUse *types.TransactionInProgressException
	if errors.As(err, &inUse) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
