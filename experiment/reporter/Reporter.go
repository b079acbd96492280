// Package reporter prints human-readable learning statistics of a run
package reporter

import (
	"fmt"
	"io"
	"math"

	"github.com/KEniuniu/DeepRL/agent/a2c"
	"github.com/KEniuniu/DeepRL/utils/floatutils"
)

// Reporter prints the statistics of each iteration to an output
// stream, along with the cumulative number of trajectories collected
// and the best mean reward seen over the run so far
type Reporter struct {
	out          io.Writer
	trajectories int
	bestReward   float64
}

// New creates and returns a new Reporter printing to out
func New(out io.Writer) *Reporter {
	return &Reporter{out: out, bestReward: math.Inf(-1)}
}

// Track prints the statistics of iteration i
func (r *Reporter) Track(i int, stats a2c.IterationStats) error {
	r.trajectories += stats.Trajectories
	r.bestReward = floatutils.Max(r.bestReward, stats.MeanReward)

	_, err := fmt.Fprintf(r.out, "Iteration %d\n"+
		"\tMean reward:         %f\n"+
		"\tBest mean reward:    %f\n"+
		"\tMean episode length: %f\n"+
		"\tActor loss:          %f\n"+
		"\tCritic loss:         %f\n"+
		"\tTotal trajectories:  %d\n",
		i, stats.MeanReward, r.bestReward, stats.MeanEpisodeLength,
		stats.ActorLoss, stats.CriticLoss, r.trajectories)
	if err != nil {
		return fmt.Errorf("track: could not report iteration %d: %v", i, err)
	}

	return nil
}

// Save implements the a2c.Tracker interface. The Reporter prints
// statistics as they are tracked, so Save does nothing.
func (r *Reporter) Save() error {
	return nil
}
