package entities

import "testing"

func rec(r Recommendation) Review {
	return Review{Recommendation: r}
}

func TestConsolidateMajorityWins(t *testing.T) {
	result := Consolidate("assign-1", []Review{
		rec(RecommendationAccept),
		rec(RecommendationAccept),
		rec(RecommendationReject),
	})
	if result.Overall != RecommendationAccept {
		t.Fatalf("expected accept majority, got %s", result.Overall)
	}
	if result.Pending {
		t.Fatalf("expected consolidation complete with all reviews in")
	}
	if result.ReviewCount != 3 {
		t.Fatalf("expected review count 3, got %d", result.ReviewCount)
	}
}

func TestConsolidateTieResolvesConservatively(t *testing.T) {
	result := Consolidate("assign-1", []Review{
		rec(RecommendationAccept),
		rec(RecommendationReject),
		rec(RecommendationMinorRevision),
	})
	if result.Overall != RecommendationReject {
		t.Fatalf("expected three-way tie to resolve to reject, got %s", result.Overall)
	}

	result = Consolidate("assign-1", []Review{
		rec(RecommendationAccept),
		rec(RecommendationMinorRevision),
	})
	if result.Overall != RecommendationMinorRevision {
		t.Fatalf("expected two-way tie to resolve to minor_revision, got %s", result.Overall)
	}
}

func TestConsolidatePendingOnlyWithoutReviews(t *testing.T) {
	result := Consolidate("assign-1", nil)
	if !result.Pending || result.ReviewCount != 0 {
		t.Fatalf("expected pending empty consolidation, got %+v", result)
	}
	if result.Overall != "" {
		t.Fatalf("expected no overall verdict without reviews, got %s", result.Overall)
	}

	// A single review already yields advice; quorum gating is the editor's
	// concern, not the aggregate's.
	result = Consolidate("assign-1", []Review{rec(RecommendationAccept)})
	if result.Pending {
		t.Fatalf("expected advice available from the first review, got %+v", result)
	}
	if result.Overall != RecommendationAccept || result.ReviewCount != 1 {
		t.Fatalf("expected accept from single review, got %+v", result)
	}
}

func TestConsolidateAveragesScoresPerDimension(t *testing.T) {
	result := Consolidate("assign-1", []Review{
		{Recommendation: RecommendationAccept, Scores: map[string]float64{"clarity": 8, "accuracy": 6}},
		{Recommendation: RecommendationAccept, Scores: map[string]float64{"clarity": 6}},
	})
	if got := result.MeanScores["clarity"]; got != 7 {
		t.Fatalf("expected clarity mean 7, got %v", got)
	}
	if got := result.MeanScores["accuracy"]; got != 6 {
		t.Fatalf("expected accuracy mean 6, got %v", got)
	}
}
