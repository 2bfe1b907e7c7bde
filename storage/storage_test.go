package storage

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

var fastHashParams = Argon2idParams{
	Time:        1,
	MemoryKiB:   8 * 1024,
	Parallelism: 1,
	KeyLen:      32,
	SaltLen:     16,
}

func newTestStorage(t *testing.T) (*Storage, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testEpoch)
	s, err := NewStorage(
		Config{
			Driver:    DriverSQLite,
			DataDir:   t.TempDir(),
			Clock:     clock,
			UsersHash: fastHashParams,
		},
	)
	require.NoError(t, err)
	return s, clock
}
