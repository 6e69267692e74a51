package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicate_Combinators(t *testing.T) {
	even := Predicate[int](func(n int) bool { return n%2 == 0 })
	positive := Predicate[int](func(n int) bool { return n > 0 })

	assert.True(t, even.And(positive)(4))
	assert.False(t, even.And(positive)(-4))
	assert.True(t, even.Or(positive)(3))
	assert.False(t, even.Or(positive)(-3))
	assert.True(t, even.Not()(3))
}

func TestAllOf_EmptyMatchesEverything(t *testing.T) {
	assert.True(t, AllOf[int]()(42))
}

func TestAnyOf_EmptyMatchesNothing(t *testing.T) {
	assert.False(t, AnyOf[int]()(42))
}

func TestFilter_PreservesOrder(t *testing.T) {
	nums := []int{5, 2, 8, 1, 6}
	even := Predicate[int](func(n int) bool { return n%2 == 0 })

	assert.Equal(t, []int{2, 8, 6}, Filter(nums, even))
	assert.Nil(t, Filter([]int{1, 3}, even))
}

func TestCount(t *testing.T) {
	nums := []int{5, 2, 8, 1, 6}
	even := Predicate[int](func(n int) bool { return n%2 == 0 })

	assert.Equal(t, 3, Count(nums, even))
	assert.Equal(t, 0, Count(nil, even))
}
