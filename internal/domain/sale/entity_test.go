package sale

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	s := NewSale("comp-1", "batch-1", "grupo", "hash")

	s.Status = StatusAwaitingApproval
	require.NoError(t, s.Approve())
	assert.Equal(t, StatusReady, s.Status)
	assert.True(t, s.IsSendable())

	// Aprovar de novo não é permitido
	assert.ErrorIs(t, s.Approve(), ErrNotAwaitingReview)

	s.MarkSendError("falha temporária")
	assert.Equal(t, StatusSendError, s.Status)
	assert.True(t, s.IsSendable(), "falha de envio continua enviável")

	s.MarkSent("ca-venda-1")
	assert.Equal(t, StatusSent, s.Status)
	assert.Equal(t, "ca-venda-1", s.CaSaleID)
	assert.Empty(t, s.ErrorSummary, "envio com sucesso limpa o resumo de erro")
	assert.False(t, s.IsSendable(), "enviada é estado terminal")
}

func TestErrorStatusIsNotSendable(t *testing.T) {
	s := NewSale("comp-1", "batch-1", "grupo", "hash")
	s.Status = StatusError
	assert.False(t, s.IsSendable())
}

func TestTruncateError(t *testing.T) {
	assert.Equal(t, "curto", TruncateError("curto"))

	long := strings.Repeat("ê", 1500)
	truncated := TruncateError(long)
	assert.Equal(t, 1000, len([]rune(truncated)), "truncagem conta runas, não bytes")
}
