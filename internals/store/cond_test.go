// file: internals/store/cond_test.go
package store

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondBuild(t *testing.T) {
	t.Run("renders placeholder #field / :field", func(t *testing.T) {
		names := map[string]string{}
		values := map[string]types.AttributeValue{}

		expr, err := Where().
			Eq("payment_status", "pending").
			Ge("fundraiser_match_funding_remaining", 500).
			NotExists("payment_reference").
			build(names, values)
		require.NoError(t, err)

		assert.Equal(t,
			"#payment_status = :payment_status AND #fundraiser_match_funding_remaining >= :fundraiser_match_funding_remaining AND attribute_not_exists(#payment_reference)",
			expr)
		assert.Equal(t, "payment_status", names["#payment_status"])
		assert.Contains(t, values, ":payment_status")
		assert.Contains(t, values, ":fundraiser_match_funding_remaining")
	})

	t.Run("suffix saat field dipakai dua kali", func(t *testing.T) {
		names := map[string]string{}
		values := map[string]types.AttributeValue{}

		expr, err := Where().
			Ge("donation_amount", 10).
			Eq("donation_amount", 10).
			build(names, values)
		require.NoError(t, err)

		assert.Contains(t, expr, ":donation_amount ")
		assert.Contains(t, expr, ":donation_amount2")
	})

	t.Run("tidak bentrok dgn placeholder update :n_", func(t *testing.T) {
		updateExpr, condExpr, _, values, err := buildUpdate(
			map[string]any{"donation_counted": true},
			map[string]int{"donation_amount": 500},
			Where().Eq("donation_amount", 0),
		)
		require.NoError(t, err)

		assert.Equal(t, "SET #donation_counted = :n_donation_counted, #donation_amount = #donation_amount + :n_donation_amount", updateExpr)
		assert.Equal(t, "#donation_amount = :donation_amount", condExpr)
		assert.Contains(t, values, ":n_donation_amount")
		assert.Contains(t, values, ":donation_amount")
	})

	t.Run("nil cond = tanpa ekspresi", func(t *testing.T) {
		var cond *Cond
		expr, err := cond.build(map[string]string{}, map[string]types.AttributeValue{})
		require.NoError(t, err)
		assert.Empty(t, expr)
	})
}

func TestCondMatches(t *testing.T) {
	item := Item{
		"payment_status":    &types.AttributeValueMemberS{Value: "pending"},
		"donation_amount":   &types.AttributeValueMemberN{Value: "500"},
		"payment_reference": &types.AttributeValueMemberNULL{Value: true},
	}

	cases := []struct {
		name string
		cond *Cond
		want bool
	}{
		{"eq string cocok", Where().Eq("payment_status", "pending"), true},
		{"eq string beda", Where().Eq("payment_status", "paid"), false},
		{"eq angka cocok", Where().Eq("donation_amount", 500), true},
		{"eq nil cocok NULL", Where().Eq("payment_reference", nil), true},
		{"eq nil vs string", Where().Eq("payment_status", nil), false},
		{"ge pas di batas", Where().Ge("donation_amount", 500), true},
		{"ge di atas nilai", Where().Ge("donation_amount", 501), false},
		{"not exists attr hilang", Where().NotExists("payment_at"), true},
		{"not exists attr ada", Where().NotExists("payment_status"), false},
		{"eq attr hilang", Where().Eq("payment_at", 7), false},
		{"gabungan and", Where().Eq("payment_status", "pending").Ge("donation_amount", 100), true},
		{"nil cond selalu cocok", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.cond.matches(item)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCheckPrevious(t *testing.T) {
	t.Run("memisahkan previous jadi kondisi", func(t *testing.T) {
		sets, cond, err := CheckPrevious(map[string]any{
			"fundraiser_paused": true,
			"previous": map[string]any{
				"fundraiser_paused": false,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"fundraiser_paused": true}, sets)

		ok, err := cond.matches(Item{"fundraiser_paused": &types.AttributeValueMemberBOOL{Value: false}})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = cond.matches(Item{"fundraiser_paused": &types.AttributeValueMemberBOOL{Value: true}})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("tanpa previous = tanpa kondisi", func(t *testing.T) {
		sets, cond, err := CheckPrevious(map[string]any{"fundraiser_goal": 100})
		require.NoError(t, err)
		assert.Nil(t, cond)
		assert.Len(t, sets, 1)
	})

	t.Run("previous bukan objek = ErrValidation", func(t *testing.T) {
		_, _, err := CheckPrevious(map[string]any{"previous": "bukan objek"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
