package marking

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/harborline/cargomark-backend/internal/data/repos/testutil"
	"github.com/harborline/cargomark-backend/internal/domain"
	"github.com/harborline/cargomark-backend/internal/platform/dbctx"
)

func TestMarkBatchRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewMarkBatchRepo(db, testutil.Logger(t))

	testutil.SeedVoyage(t, ctx, tx, "V-BATCH-01")
	batch := testutil.SeedBatch(t, ctx, tx, "GLB-500", "V-BATCH-01", 1, 3)
	testutil.SeedCodes(t, ctx, tx, batch)

	found, err := repo.GetByID(dbc, batch.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found == nil || found.BatchLabel != batch.BatchLabel {
		t.Fatalf("GetByID mismatch: %+v", found)
	}

	if missing, err := repo.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("missing batch: err=%v got=%+v", err, missing)
	}

	withCodes, err := repo.GetByIDWithCodes(dbc, batch.ID)
	if err != nil {
		t.Fatalf("GetByIDWithCodes: %v", err)
	}
	if len(withCodes.Codes) != 3 {
		t.Fatalf("preloaded codes: want=3 got=%d", len(withCodes.Codes))
	}
	for i, c := range withCodes.Codes {
		if c.SequenceNumber != i+1 {
			t.Fatalf("codes must come back ordered by sequence, index %d has seq %d", i, c.SequenceNumber)
		}
	}

	locked, err := repo.LockByID(dbc, batch.ID)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if locked == nil || locked.ID != batch.ID {
		t.Fatalf("LockByID mismatch: %+v", locked)
	}

	if err := repo.UpdateStatus(dbc, batch.ID, domain.BatchStatusPrinted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	reloaded, err := repo.GetByID(dbc, batch.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != domain.BatchStatusPrinted {
		t.Fatalf("status after update: want=printed got=%s", reloaded.Status)
	}
}

func TestMarkBatchRepoList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewMarkBatchRepo(db, testutil.Logger(t))

	testutil.SeedVoyage(t, ctx, tx, "V-LIST-01")
	testutil.SeedVoyage(t, ctx, tx, "V-LIST-02")
	a := testutil.SeedBatch(t, ctx, tx, "GLB-500", "V-LIST-01", 1, 2)
	testutil.SeedBatch(t, ctx, tx, "GLB-500", "V-LIST-02", 1, 2)
	testutil.SeedBatch(t, ctx, tx, "OCN-120", "V-LIST-01", 1, 2)

	byVoyage, err := repo.List(dbc, BatchFilter{VoyageNumber: "V-LIST-01"}, 0)
	if err != nil {
		t.Fatalf("List by voyage: %v", err)
	}
	if len(byVoyage) != 2 {
		t.Fatalf("List by voyage: want=2 got=%d", len(byVoyage))
	}

	byBoth, err := repo.List(dbc, BatchFilter{VoyageNumber: "V-LIST-01", ProductCode: "GLB-500"}, 0)
	if err != nil {
		t.Fatalf("List by voyage+product: %v", err)
	}
	if len(byBoth) != 1 || byBoth[0].ID != a.ID {
		t.Fatalf("List by voyage+product: %+v", byBoth)
	}

	byStatus, err := repo.List(dbc, BatchFilter{Status: domain.BatchStatusGenerated}, 0)
	if err != nil {
		t.Fatalf("List by status: %v", err)
	}
	if len(byStatus) != 3 {
		t.Fatalf("List by status: want=3 got=%d", len(byStatus))
	}

	limited, err := repo.List(dbc, BatchFilter{}, 1)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("List limited: want=1 got=%d", len(limited))
	}

	recent, err := repo.ListRecentByVoyage(dbc, "GLB-500", "V-LIST-01", 5)
	if err != nil {
		t.Fatalf("ListRecentByVoyage: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != a.ID {
		t.Fatalf("ListRecentByVoyage: %+v", recent)
	}
}
