// file: internals/store/cond.go
package store

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

/* =========================================================
   Cond: builder condition expression (#field / :field)
========================================================= */

type condOp int

const (
	opEq condOp = iota
	opGe
	opNotExists
)

type clause struct {
	field string
	op    condOp
	value any
}

// Cond adalah kondisi terstruktur yang bisa dirender ke wire form DynamoDB
// (placeholder #field / :field) dan dievaluasi langsung oleh MemConn.
// nil *Cond berarti tanpa kondisi.
type Cond struct {
	clauses []clause
}

// Where memulai chain kondisi kosong.
func Where() *Cond { return &Cond{} }

// Eq: field harus sama persis dengan value sejak dibaca (CAS).
// value nil berarti "harus NULL".
func (c *Cond) Eq(field string, value any) *Cond {
	c.clauses = append(c.clauses, clause{field: field, op: opEq, value: value})
	return c
}

// Ge: field numerik harus >= value (dipakai untuk decrement pool).
func (c *Cond) Ge(field string, value any) *Cond {
	c.clauses = append(c.clauses, clause{field: field, op: opGe, value: value})
	return c
}

// NotExists: attribute tidak boleh ada (guard duplicate key saat insert).
func (c *Cond) NotExists(field string) *Cond {
	c.clauses = append(c.clauses, clause{field: field, op: opNotExists})
	return c
}

// And menggabungkan kondisi lain (nil aman).
func (c *Cond) And(other *Cond) *Cond {
	if other != nil {
		c.clauses = append(c.clauses, other.clauses...)
	}
	return c
}

func (c *Cond) empty() bool { return c == nil || len(c.clauses) == 0 }

// build merender kondisi ke (expression, names, values) dengan kontrak
// placeholder #fieldName / :fieldName. Placeholder value yang bentrok
// (field sama dipakai dua kali) diberi suffix angka.
func (c *Cond) build(names map[string]string, values map[string]types.AttributeValue) (string, error) {
	if c.empty() {
		return "", nil
	}
	expr := ""
	for i, cl := range c.clauses {
		if i > 0 {
			expr += " AND "
		}
		nameph := "#" + cl.field
		names[nameph] = cl.field

		if cl.op == opNotExists {
			expr += fmt.Sprintf("attribute_not_exists(%s)", nameph)
			continue
		}

		valueph := ":" + cl.field
		for n := 2; ; n++ {
			if _, taken := values[valueph]; !taken {
				break
			}
			valueph = fmt.Sprintf(":%s%d", cl.field, n)
		}
		av, err := attributevalue.Marshal(cl.value)
		if err != nil {
			return "", fmt.Errorf("%w: marshal kondisi %s: %v", ErrInternal, cl.field, err)
		}
		values[valueph] = av

		switch cl.op {
		case opEq:
			expr += fmt.Sprintf("%s = %s", nameph, valueph)
		case opGe:
			expr += fmt.Sprintf("%s >= %s", nameph, valueph)
		}
	}
	return expr, nil
}

// matches mengevaluasi kondisi terhadap satu item (dipakai MemConn supaya
// semantiknya identik dengan ConditionExpression DynamoDB).
func (c *Cond) matches(item Item) (bool, error) {
	if c.empty() {
		return true, nil
	}
	for _, cl := range c.clauses {
		attr, present := item[cl.field]
		switch cl.op {
		case opNotExists:
			if present {
				return false, nil
			}
		case opEq:
			if !present {
				return false, nil
			}
			av, err := attributevalue.Marshal(cl.value)
			if err != nil {
				return false, fmt.Errorf("%w: marshal kondisi %s: %v", ErrInternal, cl.field, err)
			}
			if !avEqual(attr, av) {
				return false, nil
			}
		case opGe:
			have, ok1 := avNumber(attr)
			av, err := attributevalue.Marshal(cl.value)
			if err != nil {
				return false, fmt.Errorf("%w: marshal kondisi %s: %v", ErrInternal, cl.field, err)
			}
			want, ok2 := avNumber(av)
			if !ok1 || !ok2 || have < want {
				return false, nil
			}
		}
	}
	return true, nil
}

/* =========================================================
   Pembanding AttributeValue
========================================================= */

func avNumber(av types.AttributeValue) (float64, bool) {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func avEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		an, _ := avNumber(a)
		bn, ok := avNumber(b)
		return ok && an == bn
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberNULL:
		_, ok := b.(*types.AttributeValueMemberNULL)
		return ok
	case *types.AttributeValueMemberL:
		bv, ok := b.(*types.AttributeValueMemberL)
		if !ok || len(av.Value) != len(bv.Value) {
			return false
		}
		for i := range av.Value {
			if !avEqual(av.Value[i], bv.Value[i]) {
				return false
			}
		}
		return true
	case *types.AttributeValueMemberM:
		bv, ok := b.(*types.AttributeValueMemberM)
		if !ok || len(av.Value) != len(bv.Value) {
			return false
		}
		for k, v := range av.Value {
			w, exists := bv.Value[k]
			if !exists || !avEqual(v, w) {
				return false
			}
		}
		return true
	}
	return false
}
