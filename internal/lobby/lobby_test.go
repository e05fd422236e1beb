package lobby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

func TestAddAssignsInsertionOrderIndex(t *testing.T) {
	l := New()
	a1 := addr.Addr{IP: 1, Port: 1}
	a2 := addr.Addr{IP: 2, Port: 2}

	m1 := l.Add(a1, wire.KindRemote)
	m2 := l.Add(a2, wire.KindRemote)

	assert.EqualValues(t, 0, m1.Index)
	assert.EqualValues(t, 1, m2.Index)
}

func TestDoubleAddIsIgnored(t *testing.T) {
	l := New()
	a1 := addr.Addr{IP: 1, Port: 1}

	first := l.Add(a1, wire.KindRemote)
	second := l.Add(a1, wire.KindRemote)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, l.Len())
}

func TestTeamBalanceInvariantHoldsAfterEveryAdd(t *testing.T) {
	l := New()
	for i := 0; i < 9; i++ {
		l.Add(addr.Addr{IP: uint32(i + 1), Port: uint16(i + 1)}, wire.KindRemote)
		t1, t2 := l.TeamCounts()
		assert.Equal(t, l.Len(), t1+t2)
		diff := t1 - t2
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, 1)
	}
}

func TestRemoveFreesTeamSlot(t *testing.T) {
	l := New()
	a1 := addr.Addr{IP: 1, Port: 1}
	m := l.Add(a1, wire.KindRemote)

	removed, ok := l.Remove(a1)
	require.True(t, ok)
	assert.Equal(t, m, removed)

	t1, t2 := l.TeamCounts()
	assert.Equal(t, 0, t1+t2)
	assert.Equal(t, 0, l.Len())
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	l := New()
	_, ok := l.Remove(addr.Addr{IP: 9, Port: 9})
	assert.False(t, ok)
}
