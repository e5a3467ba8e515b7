package memory_test

import (
	"context"
	"errors"
	"testing"

	"fitcoach/internal/adapter/memory"
	"fitcoach/internal/app"
	"fitcoach/internal/domain"
)

// End-to-end checks of the daily recorder on the in-memory store.

func newRecorder(t *testing.T) (context.Context, *app.WeightService, *app.CalculatorService, *memory.DB) {
	t.Helper()
	db := memory.New()
	u, err := db.Create(context.Background(), domain.NewUser{Username: "ann", Role: domain.RoleClient})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ids := app.ContextIdentity{}
	weights := app.NewWeightService(ids, db, db)
	calc := app.NewCalculatorService(ids, db, db, weights)
	return app.WithUser(context.Background(), u), weights, calc, db
}

func TestRecorder_DefaultsWithoutData(t *testing.T) {
	ctx, weights, _, _ := newRecorder(t)

	res, err := weights.GetTodaysWeight(ctx, "2026-03-14")
	if err != nil {
		t.Fatalf("GetTodaysWeight: %v", err)
	}
	want := domain.WeightResult{Weight: 0, Unit: domain.UnitKG, Source: domain.SourceProfile}
	if res != want {
		t.Fatalf("got %+v, want %+v", res, want)
	}
}

func TestRecorder_EntryLocksOverProfile(t *testing.T) {
	ctx, weights, _, db := newRecorder(t)
	u, _ := app.UserFromContext(ctx)
	_ = db.UpsertBodyProfile(ctx, domain.UserBodyProfile{UserID: u.ID, Weight: 95, Unit: domain.UnitLB})

	if err := weights.RecordTodaysWeight(ctx, "2026-03-14", 70, domain.UnitKG); err != nil {
		t.Fatalf("RecordTodaysWeight: %v", err)
	}
	res, err := weights.GetTodaysWeight(ctx, "2026-03-14")
	if err != nil {
		t.Fatalf("GetTodaysWeight: %v", err)
	}
	want := domain.WeightResult{Weight: 70, Unit: domain.UnitKG, Source: domain.SourceEntry, IsLocked: true}
	if res != want {
		t.Fatalf("got %+v, want %+v", res, want)
	}

	// Another day still falls back to the profile.
	res, _ = weights.GetTodaysWeight(ctx, "2026-03-15")
	if res.Source != domain.SourceProfile || res.Weight != 95 || res.Unit != domain.UnitLB {
		t.Fatalf("expected profile fallback, got %+v", res)
	}
}

func TestRecorder_RejectedWriteKeepsEntry(t *testing.T) {
	ctx, weights, _, _ := newRecorder(t)

	_ = weights.RecordTodaysWeight(ctx, "2026-03-14", 82, domain.UnitKG)
	err := weights.RecordTodaysWeight(ctx, "2026-03-14", 10, domain.UnitKG)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	res, _ := weights.GetTodaysWeight(ctx, "2026-03-14")
	if res.Weight != 82 {
		t.Fatalf("entry changed to %v", res.Weight)
	}
}

func TestRecorder_LoggedFlags(t *testing.T) {
	ctx, weights, calc, _ := newRecorder(t)

	logged, _ := weights.IsTodaysWeightLogged(ctx, "2026-03-14")
	if logged {
		t.Fatal("expected not logged")
	}
	_ = weights.RecordTodaysWeight(ctx, "2026-03-14", 75, domain.UnitLB)
	logged, _ = weights.IsTodaysWeightLogged(ctx, "2026-03-14")
	if !logged {
		t.Fatal("expected logged")
	}

	if _, err := calc.LogSession(ctx, "2026-03-14", domain.CategoryBodyFat, 21); err != nil {
		t.Fatalf("LogSession: %v", err)
	}
	bf, _ := calc.IsTodaysCategoryLogged(ctx, "2026-03-14", domain.CategoryBodyFat)
	bmi, _ := calc.IsTodaysCategoryLogged(ctx, "2026-03-14", domain.CategoryBMI)
	if !bf || bmi {
		t.Fatalf("expected body fat only, got bodyFat=%v bmi=%v", bf, bmi)
	}
}

func TestRecorder_Unauthorized(t *testing.T) {
	_, weights, calc, _ := newRecorder(t)
	anon := context.Background()

	if _, err := weights.GetTodaysWeight(anon, "2026-03-14"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("GetTodaysWeight: expected ErrUnauthorized, got %v", err)
	}
	if _, err := weights.IsTodaysWeightLogged(anon, "2026-03-14"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("IsTodaysWeightLogged: expected ErrUnauthorized, got %v", err)
	}
	if _, err := calc.IsTodaysCategoryLogged(anon, "2026-03-14", domain.CategoryBMI); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("IsTodaysCategoryLogged: expected ErrUnauthorized, got %v", err)
	}
}
