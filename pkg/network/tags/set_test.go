// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package tags

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSets(n int) []Set {
	r := rand.New(rand.NewSource(42))
	sets := []Set{Empty(), Set(^uint64(0)), HTTP.Mask(), TLS.Mask() | LibSSL.Mask()}
	for i := 0; i < n; i++ {
		sets = append(sets, Set(r.Uint64()))
	}
	return sets
}

func TestUnionLaws(t *testing.T) {
	sets := randomSets(20)
	for _, a := range sets {
		assert.Equal(t, a, Union(a, Empty()), "identity")
		assert.Equal(t, a, Union(a, a), "idempotence")
		for _, b := range sets {
			assert.Equal(t, Union(a, b), Union(b, a), "commutativity")
			for _, c := range sets {
				assert.Equal(t, Union(a, Union(b, c)), Union(Union(a, b), c), "associativity")
			}
		}
	}
}

func TestWithContains(t *testing.T) {
	for i := 0; i < MaxTags; i++ {
		tag := Tag(i)
		s := With(Empty(), tag)
		assert.True(t, s.Contains(tag))
		assert.Equal(t, 1, s.Len())
		for j := 0; j < MaxTags; j++ {
			if j != i {
				assert.False(t, s.Contains(Tag(j)))
			}
		}
	}
}

func TestWithIsIdempotent(t *testing.T) {
	s := Empty().With(HTTP).With(TLS)
	assert.Equal(t, s, s.With(HTTP))
	assert.Equal(t, 2, s.Len())
}

func TestOutOfRangeTag(t *testing.T) {
	tag := Tag(MaxTags)
	assert.Equal(t, Empty(), tag.Mask())
	assert.Equal(t, Empty(), With(Empty(), tag))
	assert.False(t, Set(^uint64(0)).Contains(tag))
}

func TestList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Empty().List())
		assert.True(t, Empty().IsEmpty())
	})

	t.Run("ascending order", func(t *testing.T) {
		s := Empty().With(Tag(63)).With(TLS).With(HTTP).With(Tag(17))
		assert.Equal(t, []Tag{HTTP, TLS, Tag(17), Tag(63)}, s.List())
	})

	t.Run("stable", func(t *testing.T) {
		for _, s := range randomSets(50) {
			first := s.List()
			require.Len(t, first, s.Len())
			assert.Equal(t, first, s.List())
			for i := 1; i < len(first); i++ {
				assert.True(t, first[i-1] < first[i])
			}
		}
	})

	t.Run("full", func(t *testing.T) {
		l := Set(^uint64(0)).List()
		require.Len(t, l, MaxTags)
		assert.Equal(t, Tag(0), l[0])
		assert.Equal(t, Tag(63), l[63])
	})
}

func TestSetString(t *testing.T) {
	assert.Equal(t, "0x0", Empty().String())
	assert.Equal(t, "0x9", Empty().With(HTTP).With(TLS).String())
}
