package correlate

import (
	"math"
	"testing"
)

func statsOf(values ...float64) *Stats {
	s := &Stats{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func TestStats(t *testing.T) {
	s := statsOf(1, 2, 3)
	if s.N() != 3 {
		t.Error("Expected 3 observations, got", s.N())
	}
	if math.Abs(s.Mean()-2) > smallDiff {
		t.Error("Expected mean 2, got", s.Mean())
	}
	if math.Abs(s.StdDev()-1) > smallDiff {
		t.Error("Expected sd 1, got", s.StdDev())
	}

	// a single observation has no spread
	if sd := statsOf(5).StdDev(); sd != 0 {
		t.Error("Expected sd 0, got", sd)
	}
}

func TestEvaluationAggregates(t *testing.T) {
	eval := &Evaluation{}
	eval.Add(statsOf(1, 2, 3), statsOf(2, 4))
	eval.Add(statsOf(4, 6), statsOf(1, 1))

	if eval.Len() != 2 {
		t.Error("Expected 2 entries, got", eval.Len())
	}

	means := eval.PositiveMeans()
	if len(means) != 2 || means[0] != 2 || means[1] != 5 {
		t.Error("Wrong positive means: ", means)
	}

	pos := eval.Positive()
	if pos.Genes != 2 {
		t.Error("Expected 2 genes, got", pos.Genes)
	}
	if math.Abs(pos.MeanOfMeans-3.5) > smallDiff {
		t.Error("Expected mean of means 3.5, got", pos.MeanOfMeans)
	}
	wantSDs := (1 + math.Sqrt2) / 2
	if math.Abs(pos.MeanOfSDs-wantSDs) > smallDiff {
		t.Error("Expected mean of sds ", wantSDs, ", got", pos.MeanOfSDs)
	}

	neg := eval.Negative()
	if math.Abs(neg.MeanOfMeans-2) > smallDiff {
		t.Error("Expected mean of means 2, got", neg.MeanOfMeans)
	}
	if math.Abs(neg.MeanOfSDs-math.Sqrt2/2) > smallDiff {
		t.Error("Expected mean of sds ", math.Sqrt2/2, ", got", neg.MeanOfSDs)
	}
}

func TestEvaluationString(t *testing.T) {
	eval := &Evaluation{}
	eval.Add(statsOf(1, 3), statsOf(2, 2))
	if s := eval.String(); s != "2.0000 / 2.0000" {
		t.Error("Wrong format: ", s)
	}
}
