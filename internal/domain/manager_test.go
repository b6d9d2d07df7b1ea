package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sumire/managers/internal/domain"
)

func TestParseManagerList(t *testing.T) {
	assert.Empty(t, domain.ParseManagerList(""))
	assert.Equal(t, domain.ManagerList{"U1", "U2"}, domain.ParseManagerList("U1,U2"))
	assert.Equal(t, domain.ManagerList{"U1", "U2"}, domain.ParseManagerList(" U1 ,, U2,U1,"))
}

func TestManagerListRoundTrip(t *testing.T) {
	list := domain.ManagerList{"U1", "U2"}
	assert.Equal(t, list, domain.ParseManagerList(list.String()))
}

func TestManagerListWith(t *testing.T) {
	base := domain.ParseManagerList("U_A")

	next, changed := base.With("U_B")
	assert.True(t, changed)
	assert.Equal(t, "U_A,U_B", next.String())
	assert.Equal(t, "U_A", base.String(), "receiver is not modified")

	same, changed := next.With("U_A")
	assert.False(t, changed)
	assert.Equal(t, "U_A,U_B", same.String())

	var empty domain.ManagerList
	first, changed := empty.With("U_A")
	assert.True(t, changed)
	assert.Equal(t, "U_A", first.String())
}

func TestManagerListWithout(t *testing.T) {
	list := domain.ParseManagerList("U_A,U_B,U_C")

	next, changed := list.Without("U_B")
	assert.True(t, changed)
	assert.Equal(t, "U_A,U_C", next.String())

	_, changed = next.Without("U_B")
	assert.False(t, changed)
}
