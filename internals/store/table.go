// file: internals/store/table.go
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/go-playground/validator/v10"
)

// validator schema dipakai bersama semua tabel (safety net invariant
// internal, bukan validasi input user; itu urusan DTO).
var validate = validator.New()

/* =========================================================
   Table[T]: wrapper bertipe di atas Conn
========================================================= */

type Table[T any] struct {
	conn Conn
	spec TableSpec
	sink AuditSink
}

// NewTable memvalidasi TableSpec sekali di startup.
func NewTable[T any](conn Conn, spec TableSpec, sink AuditSink) (*Table[T], error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Table[T]{conn: conn, spec: spec, sink: sink}, nil
}

func (t *Table[T]) Spec() TableSpec { return t.spec }

func (t *Table[T]) Get(ctx context.Context, partition, sortKey any) (*T, error) {
	item, err := t.conn.Get(ctx, t.spec, Key{Partition: partition, Sort: sortKey})
	if err != nil {
		return nil, err
	}
	return t.decode(item)
}

func (t *Table[T]) Query(ctx context.Context, partition any) ([]T, error) {
	items, err := t.conn.Query(ctx, t.spec, partition)
	if err != nil {
		return nil, err
	}
	return t.decodeAll(items)
}

func (t *Table[T]) Scan(ctx context.Context) ([]T, error) {
	items, err := t.conn.Scan(ctx, t.spec)
	if err != nil {
		return nil, err
	}
	return t.decodeAll(items)
}

// Insert menolak key yang sudah ada (ErrConflict) plus kondisi tambahan.
func (t *Table[T]) Insert(ctx context.Context, entity *T, extra *Cond) error {
	op, err := t.TxInsert(entity, extra)
	if err != nil {
		return err
	}
	if err := t.conn.Put(ctx, t.spec, op.PutItem, extra); err != nil {
		return err
	}
	t.record(ctx, op)
	return nil
}

// Update men-set field yang diberikan secara atomik. Increment numerik
// sengaja tidak tersedia di sini: hanya lewat transaksi (TxUpdate).
func (t *Table[T]) Update(ctx context.Context, key Key, sets map[string]any, extra *Cond) (*T, error) {
	op, err := t.TxUpdate(key, sets, nil, extra)
	if err != nil {
		return nil, err
	}
	item, err := t.conn.Update(ctx, t.spec, key, sets, extra)
	if err != nil {
		return nil, err
	}
	t.record(ctx, op)
	return t.decode(item)
}

/* =========================================================
   Partisipasi transaksi
========================================================= */

// TxInsert membangun operasi insert untuk store.Transact.
func (t *Table[T]) TxInsert(entity *T, extra *Cond) (TxOp, error) {
	if err := validate.Struct(entity); err != nil {
		return TxOp{}, fmt.Errorf("%w: schema %s sebelum insert: %v", ErrInternal, t.spec.Name, err)
	}
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return TxOp{}, fmt.Errorf("%w: marshal %s: %v", ErrInternal, t.spec.Name, err)
	}
	op := TxOp{
		Spec:    t.spec,
		PutItem: item,
		Cond:    extra,
		action:  ActionCreate,
		sink:    t.sink,
	}
	op.objectID, err = t.objectID(op)
	if err != nil {
		return TxOp{}, err
	}
	var detail map[string]any
	if err := attributevalue.UnmarshalMap(item, &detail); err == nil {
		op.detail = detail
	}
	return op, nil
}

// TxUpdate membangun operasi update (Sets) / increment (Plus) untuk
// store.Transact.
func (t *Table[T]) TxUpdate(key Key, sets map[string]any, plus map[string]int, extra *Cond) (TxOp, error) {
	if len(sets)+len(plus) == 0 {
		return TxOp{}, fmt.Errorf("%w: update %s tanpa field", ErrInternal, t.spec.Name)
	}
	for _, field := range []string{t.spec.PartitionKey, t.spec.SortKey} {
		if field == "" {
			continue
		}
		if _, ok := sets[field]; ok {
			return TxOp{}, fmt.Errorf("%w: key %s immutable", ErrInternal, field)
		}
		if _, ok := plus[field]; ok {
			return TxOp{}, fmt.Errorf("%w: key %s immutable", ErrInternal, field)
		}
	}
	action := ActionEdit
	if len(plus) > 0 {
		action = ActionPlus
	}
	op := TxOp{
		Spec:   t.spec,
		Key:    key,
		Sets:   sets,
		Plus:   plus,
		Cond:   extra,
		action: action,
		sink:   t.sink,
	}
	var err error
	op.objectID, err = t.objectID(op)
	if err != nil {
		return TxOp{}, err
	}
	detail := map[string]any{}
	for field, value := range sets {
		detail[field] = value
	}
	for field, delta := range plus {
		detail[field] = map[string]any{"plus": delta}
	}
	op.detail = detail
	return op, nil
}

/* =========================================================
   Internal
========================================================= */

func (t *Table[T]) decode(item Item) (*T, error) {
	var entity T
	if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
		return nil, fmt.Errorf("%w: unmarshal %s: %v", ErrInternal, t.spec.Name, err)
	}
	if err := validate.Struct(&entity); err != nil {
		return nil, fmt.Errorf("%w: schema %s sesudah baca: %v", ErrInternal, t.spec.Name, err)
	}
	return &entity, nil
}

func (t *Table[T]) decodeAll(items []Item) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		entity, err := t.decode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, *entity)
	}
	return out, nil
}

func (t *Table[T]) record(ctx context.Context, op TxOp) {
	if t.sink != nil {
		t.sink.Record(ctx, op.action, t.spec.Name, op.objectID, op.detail)
	}
}

func (t *Table[T]) objectID(op TxOp) (string, error) {
	token, err := op.itemToken()
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(token, t.spec.Name+"/"), nil
}
