package finalization

import (
	"fmt"
	"testing"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
	"github.com/unit-e/ued/internal/ufp64"
)

func testFinParams(epochLength uint32) *Params {
	return &Params{
		Finalization: esperanza.Params{
			EpochLength:               epochLength,
			MinDepositSize:            1500,
			DynastyLogoutDelay:        2,
			WithdrawalEpochDelay:      2,
			SlashFractionMultiplier:   3,
			BountyFractionDenominator: 25,
			BaseInterestFactor:        ufp64.FromRatio(7, 1000),
			BasePenaltyFactor:         ufp64.FromRatio(2, 1000),
		},
		MaxSnapshots:          3,
		MinFinalizedSnapshots: 1,
	}
}

func hashForHeight(h chain.Height) chain.Hash256 {
	return chain.HashH([]byte(fmt.Sprintf("block-%d", h)))
}

// buildLinearChain builds n blocks atop genesis, each a simple child of the
// previous, with no finalization transactions, and drives them through a
// Processor. It returns the repository, processor, block index, and the
// mainChainAt/snapshotHash closures so tests can keep driving further
// blocks.
func buildLinearChain(t *testing.T, params *Params, n int) (*Repository, *Processor, []*chain.BlockIndex) {
	t.Helper()
	genesisHash := hashForHeight(0)
	repo := NewRepository(params, genesisHash)
	snapshots := NewSnapshotIndex(params)
	proc := NewProcessor(repo, params, snapshots)

	blocks := []*chain.BlockIndex{{Hash: genesisHash, Height: 0}}
	mainChainAt := func(h chain.Height) chain.Hash256 {
		if int(h) < len(blocks) {
			return blocks[h].Hash
		}
		return chain.ZeroHash
	}
	snapshotHash := func(h chain.Height) chain.Hash256 { return hashForHeight(h) }

	for i := 1; i <= n; i++ {
		blk := &chain.BlockIndex{
			Hash:       hashForHeight(chain.Height(i)),
			ParentHash: blocks[i-1].Hash,
			Height:     chain.Height(i),
		}
		if err := proc.ProcessNewTip(blk, nil, mainChainAt, snapshotHash); err != nil {
			t.Fatalf("block %d: ProcessNewTip failed: %v", i, err)
		}
		blocks = append(blocks, blk)
	}
	return repo, proc, blocks
}

func TestRepositoryGenesisSeeded(t *testing.T) {
	params := testFinParams(50)
	genesisHash := hashForHeight(0)
	repo := NewRepository(params, genesisHash)

	state := repo.Get(genesisHash)
	if state == nil {
		t.Fatal("genesis state missing")
	}
	if state.InitStatus() != esperanza.StatusCompleted {
		t.Fatalf("genesis InitStatus = %v, want COMPLETED", state.InitStatus())
	}
	if state.CurrentEpoch() != 0 {
		t.Fatalf("genesis CurrentEpoch = %d, want 0", state.CurrentEpoch())
	}
}

func TestRepositoryConfirmMatch(t *testing.T) {
	params := testFinParams(50)
	genesisHash := hashForHeight(0)
	repo := NewRepository(params, genesisHash)
	proc := NewProcessor(repo, params, nil)

	blk := &chain.BlockIndex{Hash: hashForHeight(1), ParentHash: genesisHash, Height: 1}

	if err := proc.ProcessNewCommits(blk, nil); err != nil {
		t.Fatalf("ProcessNewCommits: %v", err)
	}
	state := repo.Get(blk.Hash)
	if state.InitStatus() != esperanza.StatusFromCommits {
		t.Fatalf("InitStatus after commits = %v, want FROM_COMMITS", state.InitStatus())
	}

	if err := proc.ProcessNewTipCandidate(blk, nil); err != nil {
		t.Fatalf("ProcessNewTipCandidate: %v", err)
	}

	confirmed := repo.Get(blk.Hash)
	if confirmed.InitStatus() != esperanza.StatusCompleted {
		t.Fatalf("InitStatus after confirm = %v, want COMPLETED", confirmed.InitStatus())
	}
}

func TestRepositoryConfirmMismatch(t *testing.T) {
	params := testFinParams(50)
	genesisHash := hashForHeight(0)
	repo := NewRepository(params, genesisHash)

	blkHash := hashForHeight(1)
	fromCommits := repo.Get(genesisHash).Clone()
	fromCommits.SetInitStatus(esperanza.StatusFromCommits)
	repo.states[blkHash] = fromCommits

	divergent := repo.Get(genesisHash).Clone()
	// Force a divergence through the public API: a deposit the FROM_COMMITS
	// entry never saw.
	addr := addrOfN(1)
	if r := divergent.ValidateDeposit(addr, 5000); !r.OK() {
		t.Fatalf("ValidateDeposit: %v", r)
	}
	divergent.ProcessDeposit(addr, 5000, hashForHeight(1))

	matched := repo.Confirm(blkHash, divergent)
	if matched {
		t.Fatal("Confirm reported match for divergent states")
	}
	if repo.Get(blkHash).InitStatus() != esperanza.StatusCompleted {
		t.Fatal("Confirm must still install the COMPLETED state even on mismatch")
	}
}

func addrOfN(n byte) chain.Hash160 {
	var a chain.Hash160
	a[0] = n
	return a
}

// TestRepositoryTrimUntilHeight exercises S6: a 16-block chain with
// epoch_length=5. After block 11, heights 1-9 should be gone and 10, 11
// should remain. After block 21 (here truncated to match n<=16 the test
// builds, so driven via direct TrimUntilHeight calls instead for the
// second checkpoint), heights 10-14 should be gone and 15+ remain.
func TestRepositoryTrimUntilHeight(t *testing.T) {
	params := testFinParams(5)
	repo, _, blocks := buildLinearChain(t, params, 16)

	mainChainAt := func(h chain.Height) chain.Hash256 {
		if int(h) < len(blocks) {
			return blocks[h].Hash
		}
		return chain.ZeroHash
	}

	repo.TrimUntilHeight(10, mainChainAt)
	for h := 1; h <= 9; h++ {
		if repo.Get(blocks[h].Hash) != nil {
			t.Fatalf("height %d should have been trimmed", h)
		}
	}
	for _, h := range []int{10, 11} {
		if repo.Get(blocks[h].Hash) == nil {
			t.Fatalf("height %d should survive trimming", h)
		}
	}

	repo.TrimUntilHeight(15, mainChainAt)
	for h := 10; h <= 14; h++ {
		if repo.Get(blocks[h].Hash) != nil {
			t.Fatalf("height %d should have been trimmed", h)
		}
	}
	for h := 15; h <= 16; h++ {
		if repo.Get(blocks[h].Hash) == nil {
			t.Fatalf("height %d should survive trimming", h)
		}
	}
}

// TestRepositoryTrimSafety is P6: a forked block whose origin is still
// above the trim height must survive even though its own height is lower
// than some already-trimmed main-chain block's.
func TestRepositoryTrimSafety(t *testing.T) {
	params := testFinParams(5)
	repo, proc, blocks := buildLinearChain(t, params, 8)

	forkParent := blocks[6]
	forkBlock := &chain.BlockIndex{
		Hash:       chain.HashH([]byte("fork-7")),
		ParentHash: forkParent.Hash,
		Height:     7,
	}
	mainChainAt := func(h chain.Height) chain.Hash256 {
		if int(h) < len(blocks) {
			return blocks[h].Hash
		}
		return chain.ZeroHash
	}
	if err := proc.ProcessNewTipCandidate(forkBlock, nil); err != nil {
		t.Fatalf("fork block candidate: %v", err)
	}

	// forkBlock's origin is height 6 (its parent, which is on the main
	// chain); trimming at height 6 must not remove it.
	repo.TrimUntilHeight(6, mainChainAt)
	if repo.Get(forkBlock.Hash) == nil {
		t.Fatal("forked block with origin >= trim height was incorrectly trimmed")
	}

	repo.TrimUntilHeight(7, mainChainAt)
	if repo.Get(forkBlock.Hash) != nil {
		t.Fatal("forked block with origin < trim height should have been trimmed")
	}
}
