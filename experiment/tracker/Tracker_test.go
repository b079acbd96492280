package tracker

import (
	"path/filepath"
	"testing"

	"github.com/KEniuniu/DeepRL/agent/a2c"
)

func TestSummariesRoundTrip(t *testing.T) {
	dir := t.TempDir()

	summaries, err := NewSummaries(dir)
	if err != nil {
		t.Fatal(err)
	}

	tracked := []a2c.IterationStats{
		{
			ActorLoss:         0.5,
			CriticLoss:        1.25,
			MeanReward:        10.0,
			MeanEpisodeLength: 10.0,
			Trajectories:      3,
			Timesteps:         30,
		},
		{
			ActorLoss:         0.25,
			CriticLoss:        1.0,
			MeanReward:        12.0,
			MeanEpisodeLength: 12.0,
			Trajectories:      2,
			Timesteps:         24,
		},
	}
	for i, stats := range tracked {
		if err := summaries.Track(i, stats); err != nil {
			t.Fatal(err)
		}
	}
	if err := summaries.Save(); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadSummaries(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != len(tracked) {
		t.Fatalf("expected %v summaries, got %v", len(tracked), len(loaded))
	}

	for i, summary := range loaded {
		if summary.Iteration != i {
			t.Errorf("summary %v: expected iteration %v, got %v", i, i,
				summary.Iteration)
		}
		if summary.ActorLoss != tracked[i].ActorLoss {
			t.Errorf("summary %v: expected an actor loss of %v, got %v", i,
				tracked[i].ActorLoss, summary.ActorLoss)
		}
		if summary.CriticLoss != tracked[i].CriticLoss {
			t.Errorf("summary %v: expected a critic loss of %v, got %v", i,
				tracked[i].CriticLoss, summary.CriticLoss)
		}
		if summary.MeanReward != tracked[i].MeanReward {
			t.Errorf("summary %v: expected a mean reward of %v, got %v", i,
				tracked[i].MeanReward, summary.MeanReward)
		}
		if summary.Trajectories != tracked[i].Trajectories {
			t.Errorf("summary %v: expected %v trajectories, got %v", i,
				tracked[i].Trajectories, summary.Trajectories)
		}
	}
}

func TestSummariesWritesToMonitorDir(t *testing.T) {
	dir := t.TempDir()

	summaries, err := NewSummaries(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := summaries.Track(0, a2c.IterationStats{}); err != nil {
		t.Fatal(err)
	}
	if err := summaries.Save(); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSummaries(dir); err != nil {
		t.Errorf("could not load summaries from %v: %v",
			filepath.Join(dir, SummaryFileName), err)
	}
}

// A new run into an existing monitor directory replaces the previous
// run's summaries, so the summary file always holds a single
// decodable stream.
func TestNewSummariesTruncatesExisting(t *testing.T) {
	dir := t.TempDir()

	first, err := NewSummaries(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := first.Track(i, a2c.IterationStats{MeanReward: 1.0}); err != nil {
			t.Fatal(err)
		}
	}
	if err := first.Save(); err != nil {
		t.Fatal(err)
	}

	second, err := NewSummaries(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := second.Track(0, a2c.IterationStats{MeanReward: 2.0}); err != nil {
		t.Fatal(err)
	}
	if err := second.Save(); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadSummaries(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 summary after a second run, got %v",
			len(loaded))
	}
	if loaded[0].MeanReward != 2.0 {
		t.Errorf("expected the second run's summary, got %+v", loaded[0])
	}
}

func TestLoadSummariesMissingFile(t *testing.T) {
	if _, err := LoadSummaries(t.TempDir()); err == nil {
		t.Error("expected an error for a missing summary file")
	}
}
