// file: internals/store/tx.go
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

/* =========================================================
   Transaksi multi-item (all-or-nothing)
========================================================= */

// TxOp adalah satu operasi di dalam transaksi: insert (PutItem terisi) atau
// update (Key + Sets/Plus). Plus adalah atomic increment numerik
// (field = field + :delta) dan memang hanya tersedia di dalam transaksi.
type TxOp struct {
	Spec    TableSpec
	PutItem Item
	Key     Key
	Sets    map[string]any
	Plus    map[string]int
	Cond    *Cond

	// metadata audit (diisi oleh Table saat membangun op)
	action   string
	objectID string
	sink     AuditSink
	detail   map[string]any
}

func (op TxOp) isPut() bool { return op.PutItem != nil }

// Transact menjalankan seluruh operasi secara atomik: semua kondisi harus
// terpenuhi atau tidak ada yang diterapkan (ErrConflict). Dua operasi pada
// item yang sama dalam satu transaksi adalah batasan keras backing store,
// bukan pilihan desain: caller wajib merge delta per item sebelum ke sini.
func Transact(ctx context.Context, conn Conn, ops ...TxOp) error {
	if len(ops) == 0 {
		return nil
	}
	if err := rejectDuplicateItems(ops); err != nil {
		return err
	}
	if err := conn.Transact(ctx, ops); err != nil {
		return err
	}
	for _, op := range ops {
		if op.sink != nil {
			op.sink.Record(ctx, op.action, op.Spec.Name, op.objectID, op.detail)
		}
	}
	return nil
}

func rejectDuplicateItems(ops []TxOp) error {
	seen := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		token, err := op.itemToken()
		if err != nil {
			return err
		}
		if _, dup := seen[token]; dup {
			return fmt.Errorf("%w: cannot include multiple operations on one item (%s)", ErrConflict, token)
		}
		seen[token] = struct{}{}
	}
	return nil
}

// itemToken mengidentifikasi item target: tabel + partition + sort key.
func (op TxOp) itemToken() (string, error) {
	key := op.Key
	if op.isPut() {
		key = Key{Partition: op.PutItem[op.Spec.PartitionKey]}
		if op.Spec.SortKey != "" {
			key.Sort = op.PutItem[op.Spec.SortKey]
		}
	}
	item, err := keyItem(op.Spec, key)
	if err != nil {
		return "", err
	}
	parts := []string{op.Spec.Name, avToken(item[op.Spec.PartitionKey])}
	if op.Spec.SortKey != "" {
		parts = append(parts, avToken(item[op.Spec.SortKey]))
	}
	return strings.Join(parts, "/"), nil
}

// keyItem membangun map attribute key dari Key. Nilai yang sudah berupa
// AttributeValue diteruskan apa adanya.
func keyItem(spec TableSpec, key Key) (Item, error) {
	out := Item{}
	pk, err := toAttributeValue(key.Partition)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal partition key %s: %v", ErrInternal, spec.PartitionKey, err)
	}
	out[spec.PartitionKey] = pk
	if spec.SortKey != "" {
		if key.Sort == nil {
			return nil, fmt.Errorf("%w: sort key %s wajib diisi untuk tabel %s", ErrInternal, spec.SortKey, spec.Name)
		}
		sk, err := toAttributeValue(key.Sort)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal sort key %s: %v", ErrInternal, spec.SortKey, err)
		}
		out[spec.SortKey] = sk
	}
	return out, nil
}

func toAttributeValue(v any) (types.AttributeValue, error) {
	if av, ok := v.(types.AttributeValue); ok {
		return av, nil
	}
	return attributevalue.Marshal(v)
}

func avToken(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return fmt.Sprintf("%v", av)
}

/* =========================================================
   Render UpdateExpression (SET #a = :n_a, #b = #b + :n_b)
========================================================= */

// buildUpdate merender Sets + Plus ke UpdateExpression beserta
// ConditionExpression-nya. Placeholder value untuk nilai baru diberi prefix
// :n_ supaya tidak bentrok dengan placeholder kondisi (:field) di namespace
// ExpressionAttributeValues yang sama.
func buildUpdate(sets map[string]any, plus map[string]int, cond *Cond) (updateExpr string, condExpr string, names map[string]string, values map[string]types.AttributeValue, err error) {
	names = map[string]string{}
	values = map[string]types.AttributeValue{}

	parts := make([]string, 0, len(sets)+len(plus))
	for _, field := range sortedKeys(sets) {
		av, merr := attributevalue.Marshal(sets[field])
		if merr != nil {
			return "", "", nil, nil, fmt.Errorf("%w: marshal edit %s: %v", ErrInternal, field, merr)
		}
		names["#"+field] = field
		values[":n_"+field] = av
		parts = append(parts, fmt.Sprintf("#%s = :n_%s", field, field))
	}
	for _, field := range sortedKeys(plus) {
		av, merr := attributevalue.Marshal(plus[field])
		if merr != nil {
			return "", "", nil, nil, fmt.Errorf("%w: marshal increment %s: %v", ErrInternal, field, merr)
		}
		names["#"+field] = field
		values[":n_"+field] = av
		parts = append(parts, fmt.Sprintf("#%s = #%s + :n_%s", field, field, field))
	}
	if len(parts) == 0 {
		return "", "", nil, nil, fmt.Errorf("%w: update tanpa field", ErrInternal)
	}
	updateExpr = "SET " + strings.Join(parts, ", ")

	condExpr, err = cond.build(names, values)
	if err != nil {
		return "", "", nil, nil, err
	}
	return updateExpr, condExpr, names, values, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
