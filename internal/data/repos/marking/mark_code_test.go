package marking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harborline/cargomark-backend/internal/data/repos/testutil"
	"github.com/harborline/cargomark-backend/internal/domain"
	"github.com/harborline/cargomark-backend/internal/platform/dbctx"
)

func TestMarkCodeRepoApplyPrintOutcome(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewMarkCodeRepo(db, testutil.Logger(t))

	testutil.SeedVoyage(t, ctx, tx, "V-CODE-01")
	batch := testutil.SeedBatch(t, ctx, tx, "GLB-500", "V-CODE-01", 1, 3)
	codes := testutil.SeedCodes(t, ctx, tx, batch)

	ids := []uuid.UUID{codes[0].ID, codes[1].ID}
	n, err := repo.ApplyPrintOutcome(dbc, ids, domain.CodeStatusPrinted, time.Now().UTC())
	if err != nil {
		t.Fatalf("ApplyPrintOutcome: %v", err)
	}
	if n != 2 {
		t.Fatalf("affected rows: want=2 got=%d", n)
	}

	reloaded, err := repo.GetByIDs(dbc, ids)
	if err != nil || len(reloaded) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(reloaded))
	}
	for _, c := range reloaded {
		if c.Status != domain.CodeStatusPrinted {
			t.Fatalf("code status: want=printed got=%s", c.Status)
		}
		if c.PrintAttempts != 1 || c.LastPrintAttemptAt == nil {
			t.Fatalf("attempt tracking: attempts=%d at=%v", c.PrintAttempts, c.LastPrintAttemptAt)
		}
	}

	// Same status again: attempts keep climbing.
	if _, err := repo.ApplyPrintOutcome(dbc, ids[:1], domain.CodeStatusPrinted, time.Now().UTC()); err != nil {
		t.Fatalf("re-apply: %v", err)
	}
	again, err := repo.GetByIDs(dbc, ids[:1])
	if err != nil || len(again) != 1 {
		t.Fatalf("reload: err=%v len=%d", err, len(again))
	}
	if again[0].PrintAttempts != 2 {
		t.Fatalf("attempts after re-apply: want=2 got=%d", again[0].PrintAttempts)
	}
}

func TestMarkCodeRepoForceBatchOutcome(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewMarkCodeRepo(db, testutil.Logger(t))

	testutil.SeedVoyage(t, ctx, tx, "V-CODE-02")
	batch := testutil.SeedBatch(t, ctx, tx, "GLB-500", "V-CODE-02", 1, 3)
	testutil.SeedCodes(t, ctx, tx, batch)

	n, err := repo.ForceBatchOutcome(dbc, batch.ID, domain.CodeStatusFailed, time.Now().UTC())
	if err != nil {
		t.Fatalf("ForceBatchOutcome: %v", err)
	}
	if n != 3 {
		t.Fatalf("affected rows: want=3 got=%d", n)
	}

	members, err := repo.ListByBatchID(dbc, batch.ID)
	if err != nil || len(members) != 3 {
		t.Fatalf("ListByBatchID: err=%v len=%d", err, len(members))
	}
	for _, c := range members {
		if c.Status != domain.CodeStatusFailed {
			t.Fatalf("code %s: want=failed got=%s", c.ID, c.Status)
		}
	}
}

func TestMarkCodeRepoListByStatusAndSummary(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewMarkCodeRepo(db, testutil.Logger(t))

	testutil.SeedVoyage(t, ctx, tx, "V-CODE-03")
	testutil.SeedVoyage(t, ctx, tx, "V-CODE-04")
	b1 := testutil.SeedBatch(t, ctx, tx, "GLB-500", "V-CODE-03", 1, 2)
	c1 := testutil.SeedCodes(t, ctx, tx, b1)
	b2 := testutil.SeedBatch(t, ctx, tx, "GLB-500", "V-CODE-04", 1, 2)
	c2 := testutil.SeedCodes(t, ctx, tx, b2)

	now := time.Now().UTC()
	if _, err := repo.ApplyPrintOutcome(dbc, []uuid.UUID{c1[0].ID}, domain.CodeStatusFailed, now); err != nil {
		t.Fatalf("seed failed outcome: %v", err)
	}
	if _, err := repo.ApplyPrintOutcome(dbc, []uuid.UUID{c2[0].ID, c2[1].ID}, domain.CodeStatusPrinted, now); err != nil {
		t.Fatalf("seed printed outcome: %v", err)
	}

	failed, err := repo.ListByStatus(dbc, domain.CodeStatusFailed, CodeFilter{VoyageNumber: "V-CODE-03"}, 0)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(failed) != 1 || failed[0].ID != c1[0].ID {
		t.Fatalf("failed list: %+v", failed)
	}

	byBatch, err := repo.ListByStatus(dbc, domain.CodeStatusPrinted, CodeFilter{BatchID: b2.ID}, 0)
	if err != nil {
		t.Fatalf("ListByStatus by batch: %v", err)
	}
	if len(byBatch) != 2 {
		t.Fatalf("printed by batch: want=2 got=%d", len(byBatch))
	}

	counts, err := repo.CountByVoyageStatus(dbc, "GLB-500")
	if err != nil {
		t.Fatalf("CountByVoyageStatus: %v", err)
	}
	got := map[string]int64{}
	for _, row := range counts {
		got[row.VoyageNumber+"/"+row.Status] = row.Count
	}
	if got["V-CODE-03/failed"] != 1 || got["V-CODE-03/generated"] != 1 || got["V-CODE-04/printed"] != 2 {
		t.Fatalf("summary counts: %+v", got)
	}
}
