package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestamp(t *testing.T) {
	t.Parallel()
	at := NewTimestamp(time.Date(2025, 3, 4, 10, 5, 6, 123456789, time.Local))

	b, err := json.Marshal(Loan{ID: 1, BookID: 2, Borrower: "Alice", LoanedAt: at, Open: true})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1,"livro_id":2,"nome_usuario":"Alice","data_emprestimo":"2025-03-04T10:05:06.123456","data_devolucao":null,"aberto":true}`, string(b))

	v, err := at.Value()
	require.NoError(t, err)
	require.Equal(t, "2025-03-04 10:05:06.123456", v)

	var scanned Timestamp
	require.NoError(t, scanned.Scan([]byte("2025-03-04 10:05:06.123456")))
	require.True(t, at.Equal(scanned.Time))

	require.Error(t, scanned.Scan(42))
}
