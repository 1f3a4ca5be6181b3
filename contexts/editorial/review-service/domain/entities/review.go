package entities

import "time"

type Recommendation string

const (
	RecommendationAccept        Recommendation = "accept"
	RecommendationMinorRevision Recommendation = "minor_revision"
	RecommendationMajorRevision Recommendation = "major_revision"
	RecommendationReject        Recommendation = "reject"
)

func (r Recommendation) Valid() bool {
	switch r {
	case RecommendationAccept, RecommendationMinorRevision, RecommendationMajorRevision, RecommendationReject:
		return true
	default:
		return false
	}
}

// Severity orders recommendations from most permissive to most conservative.
func (r Recommendation) Severity() int {
	switch r {
	case RecommendationAccept:
		return 0
	case RecommendationMinorRevision:
		return 1
	case RecommendationMajorRevision:
		return 2
	case RecommendationReject:
		return 3
	default:
		return -1
	}
}

const (
	ScoreMin = 0.0
	ScoreMax = 10.0
)

// Review is one reviewer's verdict on an assignment. A reviewer holds at most
// one review per assignment; resubmitting overwrites it in place.
type Review struct {
	ReviewID       string
	AssignmentID   string
	ReviewerID     string
	Recommendation Recommendation
	Scores         map[string]float64
	Comments       string
	SubmittedAt    time.Time
	UpdatedAt      time.Time
}

func (r Review) ScoresInRange() bool {
	for _, score := range r.Scores {
		if score < ScoreMin || score > ScoreMax {
			return false
		}
	}
	return true
}

// ConsolidatedRecommendation is the aggregate the editorial decision reads.
type ConsolidatedRecommendation struct {
	AssignmentID string
	Overall      Recommendation
	// Pending is true while no reviews exist yet. Quorum checks against
	// ReviewCount belong to the caller.
	Pending     bool
	ReviewCount int
	MeanScores  map[string]float64
}

// Consolidate folds submitted reviews into one verdict: the modal
// recommendation wins, and a tie resolves to the most conservative of the
// tied options. Scores are averaged per dimension across all reviews.
func Consolidate(assignmentID string, reviews []Review) ConsolidatedRecommendation {
	result := ConsolidatedRecommendation{
		AssignmentID: assignmentID,
		ReviewCount:  len(reviews),
		MeanScores:   map[string]float64{},
	}
	if len(reviews) == 0 {
		result.Pending = true
		return result
	}

	counts := make(map[Recommendation]int, 4)
	scoreSums := make(map[string]float64)
	scoreCounts := make(map[string]int)
	for _, review := range reviews {
		counts[review.Recommendation]++
		for dimension, score := range review.Scores {
			scoreSums[dimension] += score
			scoreCounts[dimension]++
		}
	}

	best := 0
	for _, count := range counts {
		if count > best {
			best = count
		}
	}
	var overall Recommendation
	for recommendation, count := range counts {
		if count != best {
			continue
		}
		if overall == "" || recommendation.Severity() > overall.Severity() {
			overall = recommendation
		}
	}
	result.Overall = overall

	for dimension, sum := range scoreSums {
		result.MeanScores[dimension] = sum / float64(scoreCounts[dimension])
	}
	return result
}
