package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"bountychain/core/types"
	"bountychain/native/bounty"
	"bountychain/storage"
)

func testAddr(fill byte) [20]byte {
	var out [20]byte
	for i := range out {
		out[i] = fill
	}
	return out
}

func TestAccountRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	addr := testAddr(0x01)

	acct, err := m.GetAccount(addr)
	require.NoError(t, err)
	require.Equal(t, int64(0), acct.Balance.Int64())
	require.Equal(t, uint64(0), acct.Reputation)

	acct.Balance = big.NewInt(1_000)
	acct.Reputation = 42
	require.NoError(t, m.PutAccount(addr, acct))

	loaded, err := m.GetAccount(addr)
	require.NoError(t, err)
	require.Equal(t, int64(1_000), loaded.Balance.Int64())
	require.Equal(t, uint64(42), loaded.Reputation)
}

func TestPutAccountRejectsNil(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	require.Error(t, m.PutAccount(testAddr(0x01), nil))
}

func TestSequentialIDs(t *testing.T) {
	m := NewManager(storage.NewMemDB())

	id, err := m.BountyNextID()
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
	id, err = m.BountyNextID()
	require.NoError(t, err)
	require.Equal(t, uint64(2), id)

	count, err := m.BountyCount()
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)

	subID, err := m.SubmissionNextID()
	require.NoError(t, err)
	require.Equal(t, uint64(1), subID, "submission ids are independent of bounty ids")
}

func TestBountyRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())

	_, ok, err := m.BountyGet(1)
	require.NoError(t, err)
	require.False(t, ok)

	b := &bounty.Bounty{
		ID:       1,
		Creator:  testAddr(0x01),
		Title:    "Build a DeFi Dashboard",
		Reward:   big.NewInt(1_000),
		Deadline: 1_700_086_400,
		Status:   bounty.StatusActive,
	}
	require.NoError(t, m.BountyPut(b))

	loaded, ok, err := m.BountyGet(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, b.Title, loaded.Title)
	require.Equal(t, 0, b.Reward.Cmp(loaded.Reward))
	require.Equal(t, bounty.StatusActive, loaded.Status)
}

func TestSubmissionIndex(t *testing.T) {
	m := NewManager(storage.NewMemDB())

	ids, err := m.BountySubmissions(1)
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, m.BountySubmissionsAppend(1, 1))
	require.NoError(t, m.BountySubmissionsAppend(1, 2))
	require.NoError(t, m.BountySubmissionsAppend(2, 3))

	ids, err = m.BountySubmissions(1)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, ids)
}

func TestVoteRecords(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	voter := testAddr(0x0A)

	_, ok, err := m.VoteGet(1, voter)
	require.NoError(t, err)
	require.False(t, ok)

	record := &bounty.VoteRecord{BountyID: 1, Voter: voter, SubmissionID: 2, Weight: 10, CastAt: 1_700_000_000}
	require.NoError(t, m.VotePut(record))
	require.NoError(t, m.BountyVotersAppend(1, voter))

	loaded, ok, err := m.VoteGet(1, voter)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(10), loaded.Weight)

	voters, err := m.BountyVoters(1)
	require.NoError(t, err)
	require.Len(t, voters, 1)
	require.Equal(t, voter, voters[0])

	// A vote on another bounty does not collide.
	_, ok, err = m.VoteGet(2, voter)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAccountSurvivesReopen(t *testing.T) {
	db := storage.NewMemDB()
	m := NewManager(db)
	addr := testAddr(0x01)
	require.NoError(t, m.PutAccount(addr, &types.Account{Balance: big.NewInt(7), Reputation: 3}))

	reopened := NewManager(db)
	acct, err := reopened.GetAccount(addr)
	require.NoError(t, err)
	require.Equal(t, int64(7), acct.Balance.Int64())
	require.Equal(t, uint64(3), acct.Reputation)
}
