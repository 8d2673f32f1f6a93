package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory DynamoAPI for service tests. Every table is
// keyed by its "id" attribute and only the expression shapes this server
// actually emits are supported: "SET a = :v" updates and ANDed "#k = :k"
// scan filters.
type fakeDynamo struct {
	mu      sync.Mutex
	tables  map[string]map[string]map[string]types.AttributeValue
	failOps map[string]error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		tables:  map[string]map[string]map[string]types.AttributeValue{},
		failOps: map[string]error{},
	}
}

// failOn makes the next calls of op against table return err
func (f *fakeDynamo) failOn(op, table string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOps[op+":"+table] = err
}

func (f *fakeDynamo) failure(op, table string) error {
	if err, ok := f.failOps[op+":"+table]; ok {
		return err
	}
	return nil
}

// seed marshals and inserts an item directly, bypassing failure injection
func (f *fakeDynamo) seed(t *testing.T, table string, item interface{}) {
	t.Helper()
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		t.Fatalf("seed marshal failed: %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(table, marshaled)
}

func (f *fakeDynamo) put(table string, item map[string]types.AttributeValue) {
	id := stringAttr(item["id"])
	if f.tables[table] == nil {
		f.tables[table] = map[string]map[string]types.AttributeValue{}
	}
	f.tables[table][id] = item
}

// count returns the number of rows in a table
func (f *fakeDynamo) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table := aws.ToString(params.TableName)
	if err := f.failure("GetItem", table); err != nil {
		return nil, err
	}
	item, ok := f.tables[table][stringAttr(params.Key["id"])]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table := aws.ToString(params.TableName)
	if err := f.failure("PutItem", table); err != nil {
		return nil, err
	}
	f.put(table, params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table := aws.ToString(params.TableName)
	if err := f.failure("UpdateItem", table); err != nil {
		return nil, err
	}

	id := stringAttr(params.Key["id"])
	item, ok := f.tables[table][id]
	if !ok {
		item = map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
	}

	expr := aws.ToString(params.UpdateExpression)
	if !strings.HasPrefix(expr, "SET ") {
		return nil, fmt.Errorf("fakeDynamo: unsupported update expression %q", expr)
	}
	for _, assignment := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
		parts := strings.SplitN(strings.TrimSpace(assignment), " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("fakeDynamo: malformed assignment %q", assignment)
		}
		name := parts[0]
		if strings.HasPrefix(name, "#") {
			name = params.ExpressionAttributeNames[name]
		}
		value, ok := params.ExpressionAttributeValues[parts[1]]
		if !ok {
			return nil, fmt.Errorf("fakeDynamo: missing value %q", parts[1])
		}
		item[name] = value
	}
	f.put(table, item)
	return &dynamodb.UpdateItemOutput{Attributes: item}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table := aws.ToString(params.TableName)
	if err := f.failure("DeleteItem", table); err != nil {
		return nil, err
	}
	delete(f.tables[table], stringAttr(params.Key["id"]))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table := aws.ToString(params.TableName)
	if err := f.failure("Scan", table); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(f.tables[table]))
	for id := range f.tables[table] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var items []map[string]types.AttributeValue
	for _, id := range ids {
		item := f.tables[table][id]
		match, err := evalFilter(item, params.FilterExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		if match {
			items = append(items, item)
		}
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeDynamo) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for table, requests := range params.RequestItems {
		for _, request := range requests {
			if request.PutRequest != nil {
				f.put(table, request.PutRequest.Item)
			}
			if request.DeleteRequest != nil {
				delete(f.tables[table], stringAttr(request.DeleteRequest.Key["id"]))
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func evalFilter(
	item map[string]types.AttributeValue,
	filter *string,
	names map[string]string,
	values map[string]types.AttributeValue,
) (bool, error) {
	if filter == nil || *filter == "" {
		return true, nil
	}
	for _, condition := range strings.Split(*filter, " AND ") {
		var op string
		switch {
		case strings.Contains(condition, " <> "):
			op = " <> "
		case strings.Contains(condition, " = "):
			op = " = "
		default:
			return false, fmt.Errorf("fakeDynamo: unsupported condition %q", condition)
		}
		parts := strings.SplitN(condition, op, 2)
		name := strings.TrimSpace(parts[0])
		if strings.HasPrefix(name, "#") {
			name = names[name]
		}
		want := values[strings.TrimSpace(parts[1])]
		equal := attrEqual(item[name], want)
		if op == " = " && !equal {
			return false, nil
		}
		if op == " <> " && equal {
			return false, nil
		}
	}
	return true, nil
}

func attrEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}

func stringAttr(av types.AttributeValue) string {
	if v, ok := av.(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
