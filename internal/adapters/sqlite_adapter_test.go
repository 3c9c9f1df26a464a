package adapters

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	ports "expensetracker/internal/sheets"
	"expensetracker/internal/storage"
)

type recordingPublisher struct {
	published []int64
	err       error
}

func (p *recordingPublisher) PublishRowSync(_ context.Context, _ ports.Table, id int64) error {
	p.published = append(p.published, id)
	return p.err
}

func newAdapter(t *testing.T, pub SyncPublisher) (*SQLiteAdapter, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "adapter.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	a := NewSQLiteAdapter(repo, pub)
	t.Cleanup(func() { a.Close() })
	return a, repo
}

func TestSQLiteAdapter_PublishesAfterInsert(t *testing.T) {
	pub := &recordingPublisher{}
	a, _ := newAdapter(t, pub)
	ctx := context.Background()

	ref, err := a.AppendRow(ctx, ports.TableBudget, []any{"07", 500.0})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "1" || len(pub.published) != 1 || pub.published[0] != 1 {
		t.Fatalf("unexpected ref=%q published=%v", ref, pub.published)
	}

	recs, err := a.GetAllRecords(ctx, ports.TableBudget)
	if err != nil || len(recs) != 1 {
		t.Fatalf("unexpected records %v err=%v", recs, err)
	}
}

func TestSQLiteAdapter_PublishFailureKeepsRow(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	a, repo := newAdapter(t, pub)
	ctx := context.Background()

	if _, err := a.AppendRow(ctx, ports.TableSavings, []any{"07", 42.0}); err != nil {
		t.Fatalf("publish failure should not fail the append: %v", err)
	}
	pending, err := repo.PendingRows(ctx, 10)
	if err != nil || len(pending) != 1 || pending[0].Table != ports.TableSavings {
		t.Fatalf("row should stay pending: %+v err=%v", pending, err)
	}
}

func TestSQLiteAdapter_NoPublisher(t *testing.T) {
	a, _ := newAdapter(t, nil)
	if _, err := a.AppendRow(context.Background(), ports.TableBudget, []any{"01", 1.0}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := a.AppendRow(context.Background(), ports.TableBudget, []any{"01"}); err == nil {
		t.Fatal("expected column count error")
	}
}
