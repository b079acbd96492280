// Package tracker implements Trackers, which record per-iteration
// learning statistics during a run and persist them after the run has
// finished
package tracker

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KEniuniu/DeepRL/agent/a2c"
)

// SummaryFileName is the name of the file that Summaries writes in
// its monitor directory
const SummaryFileName string = "summaries.bin"

// Summary holds the persisted learning statistics of a single
// iteration
type Summary struct {
	Iteration         int
	ActorLoss         float64
	CriticLoss        float64
	MeanReward        float64
	MeanEpisodeLength float64
	Trajectories      int
	Timesteps         int
}

// Summaries tracks iteration statistics, persisting them as a stream
// of gob-encoded Summary values in the summary file of a monitor
// directory. Each tracked iteration is written through to disk
// immediately, so summaries written before an interrupted run stopped
// are preserved.
type Summaries struct {
	file *os.File
	enc  *gob.Encoder
}

// NewSummaries creates and returns a new Summaries tracker writing to
// the summary file in the argument monitor directory. An existing
// summary file is truncated: each run writes a single fresh stream of
// summaries.
func NewSummaries(monitorDir string) (*Summaries, error) {
	filename := filepath.Join(monitorDir, SummaryFileName)
	file, err := os.OpenFile(filename,
		os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("newSummaries: could not open summary "+
			"file: %v", err)
	}

	return &Summaries{
		file: file,
		enc:  gob.NewEncoder(file),
	}, nil
}

// Track records the statistics of iteration i, writing them through
// to the summary file
func (s *Summaries) Track(i int, stats a2c.IterationStats) error {
	summary := Summary{
		Iteration:         i,
		ActorLoss:         stats.ActorLoss,
		CriticLoss:        stats.CriticLoss,
		MeanReward:        stats.MeanReward,
		MeanEpisodeLength: stats.MeanEpisodeLength,
		Trajectories:      stats.Trajectories,
		Timesteps:         stats.Timesteps,
	}

	if err := s.enc.Encode(summary); err != nil {
		return fmt.Errorf("track: could not encode summary: %v", err)
	}

	return nil
}

// Save closes the summary file. The Summaries tracker cannot track
// iterations after Save has been called.
func (s *Summaries) Save() error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("save: could not close summary file: %v", err)
	}

	return nil
}

// LoadSummaries loads and returns the summaries persisted to the
// summary file of the argument monitor directory
func LoadSummaries(monitorDir string) ([]Summary, error) {
	filename := filepath.Join(monitorDir, SummaryFileName)
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadSummaries: could not open summary "+
			"file: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var summaries []Summary
	for {
		var summary Summary
		err := dec.Decode(&summary)
		if errors.Is(err, io.EOF) {
			return summaries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("loadSummaries: could not decode "+
				"summary: %v", err)
		}
		summaries = append(summaries, summary)
	}
}
