package core

import (
	"errors"
	"math/big"
	"testing"

	"bountychain/native/bounty"
	"bountychain/native/reputation"
	"bountychain/storage"
)

func testAddr(fill byte) [20]byte {
	var out [20]byte
	for i := range out {
		out[i] = fill
	}
	return out
}

func newTestNode(t *testing.T, now *int64, genesis ...GenesisAlloc) *Node {
	t.Helper()
	node, err := NewNode(storage.NewMemDB(), NodeConfig{
		Owner:   testAddr(0xAD),
		Genesis: genesis,
	})
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	if now != nil {
		node.SetNowFunc(func() int64 { return *now })
	}
	return node
}

func TestGenesisSeedsOwnerReputation(t *testing.T) {
	node := newTestNode(t, nil)
	score, err := node.Reputation(testAddr(0xAD))
	if err != nil {
		t.Fatalf("reputation: %v", err)
	}
	if score != OwnerInitialReputation {
		t.Fatalf("owner reputation = %d, want %d", score, OwnerInitialReputation)
	}
}

func TestGenesisAppliedOnce(t *testing.T) {
	db := storage.NewMemDB()
	cfg := NodeConfig{
		Owner:   testAddr(0xAD),
		Genesis: []GenesisAlloc{{Address: testAddr(0x01), Balance: big.NewInt(500)}},
	}
	if _, err := NewNode(db, cfg); err != nil {
		t.Fatalf("first boot: %v", err)
	}
	node, err := NewNode(db, cfg)
	if err != nil {
		t.Fatalf("second boot: %v", err)
	}
	balance, err := node.Balance(testAddr(0x01))
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("genesis applied twice: balance = %s", balance)
	}
}

func TestNodeRequiresOwner(t *testing.T) {
	if _, err := NewNode(storage.NewMemDB(), NodeConfig{}); err == nil {
		t.Fatal("expected error without owner address")
	}
}

// Full lifecycle through the node surface: grant, create, submit, vote,
// payout, with one notification record per successful operation.
func TestNodeLifecycle(t *testing.T) {
	now := int64(1_700_000_000)
	owner := testAddr(0xAD)
	creator := testAddr(0x01)
	alice := testAddr(0x02)
	bob := testAddr(0x03)
	voterA := testAddr(0x0A)
	voterB := testAddr(0x0B)

	node := newTestNode(t, &now, GenesisAlloc{Address: creator, Balance: big.NewInt(1_000_000)})

	for account, amount := range map[[20]byte]uint64{voterA: 10, voterB: 15, creator: 5} {
		if _, err := node.GrantReputation(owner, account, amount); err != nil {
			t.Fatalf("grant: %v", err)
		}
	}
	if score, _ := node.Reputation(voterA); score != 10 {
		t.Fatalf("voter A reputation = %d, want 10", score)
	}

	b, err := node.CreateBounty(creator, "Build a DeFi Dashboard", "desc", "QmMetaHash", big.NewInt(1_000_000), now+86_400, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sub1, err := node.SubmitWork(alice, b.ID, "QmSubmission1Hash")
	if err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	sub2, err := node.SubmitWork(bob, b.ID, "QmSubmission2Hash")
	if err != nil {
		t.Fatalf("submit 2: %v", err)
	}
	if _, err := node.StartVotingPhase(creator, b.ID); err != nil {
		t.Fatalf("start voting: %v", err)
	}
	if _, err := node.VoteOnSubmission(voterA, b.ID, sub1.ID); err != nil {
		t.Fatalf("vote A: %v", err)
	}
	if _, err := node.VoteOnSubmission(voterB, b.ID, sub2.ID); err != nil {
		t.Fatalf("vote B: %v", err)
	}

	now += bounty.VotingDuration + 1
	result, err := node.SelectWinnerAndPayout(creator, b.ID)
	if err != nil {
		t.Fatalf("payout: %v", err)
	}
	if result.WinningSubmissionID != sub2.ID {
		t.Fatalf("winner = %d, want %d", result.WinningSubmissionID, sub2.ID)
	}
	// 250 bps on 1_000_000: fee 25_000, payout 975_000.
	if result.Fee.Cmp(big.NewInt(25_000)) != 0 {
		t.Fatalf("fee = %s, want 25000", result.Fee)
	}
	winnerBalance, err := node.Balance(bob)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if winnerBalance.Cmp(big.NewInt(975_000)) != 0 {
		t.Fatalf("winner balance = %s, want 975000", winnerBalance)
	}
	ownerBalance, _ := node.Balance(owner)
	if ownerBalance.Cmp(big.NewInt(25_000)) != 0 {
		t.Fatalf("owner fee balance = %s, want 25000", ownerBalance)
	}

	// 3 grants + create + 2 submits + voting start + 2 votes + payout.
	records := node.LatestEvents(0)
	if len(records) != 10 {
		t.Fatalf("expected 10 notification records, got %d", len(records))
	}
	last := records[len(records)-1]
	if last.Type != bounty.EventTypeWinnerPaid {
		t.Fatalf("last record type = %s, want %s", last.Type, bounty.EventTypeWinnerPaid)
	}
	if last.ID == "" || last.Sequence != 10 {
		t.Fatalf("record missing identifiers: %+v", last)
	}
}

func TestNodeGrantRequiresOwner(t *testing.T) {
	node := newTestNode(t, nil)
	if _, err := node.GrantReputation(testAddr(0x01), testAddr(0x02), 5); !errors.Is(err, reputation.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestNodeFeeBpsConfigurable(t *testing.T) {
	fee := uint32(500)
	node, err := NewNode(storage.NewMemDB(), NodeConfig{Owner: testAddr(0xAD), FeeBps: &fee})
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	if node.FeeBps() != 500 {
		t.Fatalf("fee bps = %d, want 500", node.FeeBps())
	}

	tooHigh := uint32(10_001)
	if _, err := NewNode(storage.NewMemDB(), NodeConfig{Owner: testAddr(0xAD), FeeBps: &tooHigh}); !errors.Is(err, bounty.ErrInvalidInput) {
		t.Fatalf("expected invalid input for fee above 10000, got %v", err)
	}
}
