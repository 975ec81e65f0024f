// file: internals/store/mem.go
package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

/* =========================================================
   MemConn: store in-process dengan semantik conditional yang
   sama persis dengan DynamoConn (dipakai test & mode lokal)
========================================================= */

type MemConn struct {
	mu     sync.Mutex
	tables map[string]map[string]Item
}

func NewMemConn() *MemConn {
	return &MemConn{tables: map[string]map[string]Item{}}
}

func (m *MemConn) tableOf(name string) map[string]Item {
	t, ok := m.tables[name]
	if !ok {
		t = map[string]Item{}
		m.tables[name] = t
	}
	return t
}

func (m *MemConn) Get(ctx context.Context, spec TableSpec, key Key) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := TxOp{Spec: spec, Key: key}.itemToken()
	if err != nil {
		return nil, err
	}
	item, ok := m.tableOf(spec.Name)[token]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, spec.Name, token)
	}
	return cloneItem(item), nil
}

func (m *MemConn) Query(ctx context.Context, spec TableSpec, partition any) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pk, err := toAttributeValue(partition)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal partition key: %v", ErrInternal, err)
	}

	var items []Item
	for _, item := range m.tableOf(spec.Name) {
		if attr, ok := item[spec.PartitionKey]; ok && avEqual(attr, pk) {
			items = append(items, cloneItem(item))
		}
	}
	if spec.SortKey != "" {
		sort.Slice(items, func(i, j int) bool {
			return avLess(items[j][spec.SortKey], items[i][spec.SortKey]) // descending
		})
	}
	return items, nil
}

func (m *MemConn) Scan(ctx context.Context, spec TableSpec) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []Item
	for _, item := range m.tableOf(spec.Name) {
		items = append(items, cloneItem(item))
	}
	return items, nil
}

func (m *MemConn) Put(ctx context.Context, spec TableSpec, item Item, extra *Cond) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	op := TxOp{Spec: spec, PutItem: item, Cond: extra}
	if err := m.checkOp(op); err != nil {
		return err
	}
	return m.applyOp(op)
}

func (m *MemConn) Update(ctx context.Context, spec TableSpec, key Key, sets map[string]any, extra *Cond) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	op := TxOp{Spec: spec, Key: key, Sets: sets, Cond: extra}
	if err := m.checkOp(op); err != nil {
		return nil, err
	}
	if err := m.applyOp(op); err != nil {
		return nil, err
	}
	token, err := op.itemToken()
	if err != nil {
		return nil, err
	}
	return cloneItem(m.tableOf(spec.Name)[token]), nil
}

// Transact: semua kondisi dicek dulu di bawah satu lock, baru diterapkan.
// Gagal satu = tidak ada yang berubah.
func (m *MemConn) Transact(ctx context.Context, ops []TxOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range ops {
		if err := m.checkOp(op); err != nil {
			return err
		}
	}
	for _, op := range ops {
		if err := m.applyOp(op); err != nil {
			// tidak mungkin sesudah checkOp; kalau sampai terjadi berarti bug
			return fmt.Errorf("%w: apply sesudah check gagal: %v", ErrInternal, err)
		}
	}
	return nil
}

// checkOp mengevaluasi kondisi operasi terhadap state sekarang, tanpa mutasi.
func (m *MemConn) checkOp(op TxOp) error {
	token, err := op.itemToken()
	if err != nil {
		return err
	}
	existing := m.tableOf(op.Spec.Name)[token]

	if op.isPut() {
		cond := Where().NotExists(op.Spec.PartitionKey)
		if op.Spec.SortKey != "" {
			cond = cond.NotExists(op.Spec.SortKey)
		}
		cond = cond.And(op.Cond)
		target := existing
		if target == nil {
			target = Item{}
		}
		ok, err := cond.matches(target)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: put %s %s", ErrConflict, op.Spec.Name, token)
		}
		return nil
	}

	target := existing
	if target == nil {
		target = Item{}
	}
	ok, err := op.Cond.matches(target)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: update %s %s", ErrConflict, op.Spec.Name, token)
	}
	for field := range op.Plus {
		if existing == nil {
			return fmt.Errorf("%w: increment %s pada item yang tidak ada", ErrInternal, field)
		}
		if _, isNum := avNumber(existing[field]); !isNum {
			return fmt.Errorf("%w: increment %s pada field non-numerik", ErrInternal, field)
		}
	}
	return nil
}

func (m *MemConn) applyOp(op TxOp) error {
	token, err := op.itemToken()
	if err != nil {
		return err
	}
	table := m.tableOf(op.Spec.Name)

	if op.isPut() {
		table[token] = cloneItem(op.PutItem)
		return nil
	}

	item := table[token]
	if item == nil {
		// UpdateItem tanpa item existing = upsert (perilaku DynamoDB)
		item, err = keyItem(op.Spec, op.Key)
		if err != nil {
			return err
		}
	}
	for field, value := range op.Sets {
		av, err := toAttributeValue(value)
		if err != nil {
			return fmt.Errorf("%w: marshal edit %s: %v", ErrInternal, field, err)
		}
		item[field] = av
	}
	for field, delta := range op.Plus {
		current, _ := avNumber(item[field])
		item[field] = numberAV(current + float64(delta))
	}
	table[token] = item
	return nil
}

/* =========================================================
   Util AttributeValue
========================================================= */

func cloneItem(item Item) Item {
	if item == nil {
		return nil
	}
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = v // AttributeValue member tidak pernah dimutasi in-place
	}
	return out
}

func avLess(a, b types.AttributeValue) bool {
	an, aok := avNumber(a)
	bn, bok := avNumber(b)
	if aok && bok {
		return an < bn
	}
	return avToken(a) < avToken(b)
}

func numberAV(f float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(f, 'f', -1, 64)}
}
