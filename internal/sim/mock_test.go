package sim

import (
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"gridfall/internal/balance"
)

// newMockService wires a Service to a pgxmock pool so tick logic can be
// exercised against expected statements without a live database.
func newMockService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(mock, logger, balance.Default()), mock
}
