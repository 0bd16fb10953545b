package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/medprep/medprep-backend/internal/model"
)

func choice(id uuid.UUID, text string) model.AnswerChoice {
	return model.AnswerChoice{ID: id, ChoiceText: text}
}

func input(id *uuid.UUID, text string) model.AnswerInput {
	return model.AnswerInput{ID: id, ChoiceText: text}
}

func TestCountCorrect(t *testing.T) {
	answers := []model.AnswerInput{
		{ChoiceText: "a", IsCorrect: false},
		{ChoiceText: "b", IsCorrect: true},
		{ChoiceText: "c", IsCorrect: false},
	}
	if got := countCorrect(answers); got != 1 {
		t.Errorf("countCorrect = %d, want 1", got)
	}

	answers[0].IsCorrect = true
	if got := countCorrect(answers); got != 2 {
		t.Errorf("countCorrect = %d, want 2", got)
	}

	if got := countCorrect(nil); got != 0 {
		t.Errorf("countCorrect(nil) = %d, want 0", got)
	}
}

func TestReconcileAnswersUpdatesMatchingIDs(t *testing.T) {
	keepID := uuid.New()
	dropID := uuid.New()
	existing := []model.AnswerChoice{
		choice(keepID, "keep me"),
		choice(dropID, "drop me"),
	}
	incoming := []model.AnswerInput{
		input(&keepID, "keep me edited"),
		input(nil, "brand new"),
	}

	plan := reconcileAnswers(existing, incoming)

	if len(plan.DeleteIDs) != 1 || plan.DeleteIDs[0] != dropID {
		t.Errorf("DeleteIDs = %v, want [%s]", plan.DeleteIDs, dropID)
	}
	if len(plan.Updates) != 1 || *plan.Updates[0].ID != keepID {
		t.Fatalf("Updates = %v, want one update for %s", plan.Updates, keepID)
	}
	if plan.Updates[0].ChoiceText != "keep me edited" {
		t.Errorf("update text = %q, want %q", plan.Updates[0].ChoiceText, "keep me edited")
	}
	if len(plan.Inserts) != 1 || plan.Inserts[0].ChoiceText != "brand new" {
		t.Errorf("Inserts = %v, want one insert", plan.Inserts)
	}
}

func TestReconcileAnswersStaleIDBecomesInsert(t *testing.T) {
	existingID := uuid.New()
	staleID := uuid.New()
	existing := []model.AnswerChoice{choice(existingID, "current")}
	incoming := []model.AnswerInput{
		input(&existingID, "current"),
		input(&staleID, "ghost of a deleted row"),
	}

	plan := reconcileAnswers(existing, incoming)

	if len(plan.DeleteIDs) != 0 {
		t.Errorf("DeleteIDs = %v, want none", plan.DeleteIDs)
	}
	if len(plan.Updates) != 1 {
		t.Errorf("Updates = %v, want one", plan.Updates)
	}
	if len(plan.Inserts) != 1 || plan.Inserts[0].ChoiceText != "ghost of a deleted row" {
		t.Errorf("Inserts = %v, want the stale-id entry as insert", plan.Inserts)
	}
}

func TestReconcileAnswersFullReplacement(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	existing := []model.AnswerChoice{choice(a, "old a"), choice(b, "old b")}
	incoming := []model.AnswerInput{input(nil, "new a"), input(nil, "new b")}

	plan := reconcileAnswers(existing, incoming)

	if len(plan.DeleteIDs) != 2 {
		t.Errorf("DeleteIDs = %v, want both old ids", plan.DeleteIDs)
	}
	if len(plan.Updates) != 0 {
		t.Errorf("Updates = %v, want none", plan.Updates)
	}
	if len(plan.Inserts) != 2 {
		t.Errorf("Inserts = %v, want both new entries", plan.Inserts)
	}
}

func TestReconcileAnswersEmptyExisting(t *testing.T) {
	incoming := []model.AnswerInput{input(nil, "first"), input(nil, "second")}

	plan := reconcileAnswers(nil, incoming)

	if len(plan.DeleteIDs) != 0 || len(plan.Updates) != 0 {
		t.Errorf("plan = %+v, want inserts only", plan)
	}
	if len(plan.Inserts) != 2 {
		t.Errorf("Inserts = %v, want 2", plan.Inserts)
	}
}
