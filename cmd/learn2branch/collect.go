package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bartolsthoorn/learn2branch/branch"
	"github.com/bartolsthoorn/learn2branch/dataset"
	"github.com/bartolsthoorn/learn2branch/internal/logging"
	"github.com/bartolsthoorn/learn2branch/observation"
	"github.com/bartolsthoorn/learn2branch/reward"
	"github.com/bartolsthoorn/learn2branch/solver"
)

// collector records one dataset file per episode.
type collector struct {
	policy  branch.Func
	reward  reward.Function
	codec   dataset.Codec
	outDir  string
	options []branch.Option
	log     *logging.Logger
}

type episodeStats struct {
	Model   string
	File    string
	Samples int
	Result  *branch.Result
}

// collect runs episodes searches on every model with at most parallelism
// searches in flight. Each search owns its HiGHS instance.
func (c *collector) collect(ctx context.Context, models []string, episodes, parallelism int) ([]episodeStats, error) {
	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		stats []episodeStats
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, model := range models {
		for range episodes {
			g.Go(func() error {
				st, err := c.episode(ctx, model)
				if err != nil {
					return fmt.Errorf("%s: %w", model, err)
				}
				mu.Lock()
				stats = append(stats, st)
				mu.Unlock()
				return nil
			})
		}
	}
	err := g.Wait()
	return stats, err
}

func (c *collector) episode(ctx context.Context, model string) (episodeStats, error) {
	rew := c.reward.Clone()
	obs := observation.NodeBipartite{}
	node := observation.FocusNode{}

	var samples []*dataset.Sample
	opts := append(append([]branch.Option(nil), c.options...),
		branch.WithLogger(c.log),
		branch.WithResetHook(func(s *solver.State) { rew.Reset(s) }),
		branch.WithDoneHook(func(s *solver.State) {
			// The last transition ends the episode.
			if n := len(samples); n > 0 {
				samples[n-1].Reward += rew.Obtain(s, true)
			}
		}),
	)
	env, err := branch.FromFile(model, opts...)
	if err != nil {
		return episodeStats{}, err
	}

	res, err := env.Run(ctx, func(s *solver.State) (int, error) {
		// The reward of a decision is what it cost until the next one.
		r := rew.Obtain(s, false)
		if n := len(samples); n > 0 {
			samples[n-1].Reward = r
		}
		sample := &dataset.Sample{
			Step:        len(samples),
			Observation: obs.Obtain(s),
			Node:        node.Obtain(s),
			Candidates:  branch.Candidates(s),
		}
		action, err := c.policy(s)
		if err != nil {
			return 0, err
		}
		sample.Action = action
		samples = append(samples, sample)
		return action, nil
	})
	if err != nil {
		return episodeStats{}, err
	}

	base := strings.TrimSuffix(filepath.Base(model), filepath.Ext(model))
	path := filepath.Join(c.outDir, fmt.Sprintf("%s-%s.l2b", base, res.Episode))
	w, err := dataset.Create(path, c.codec)
	if err != nil {
		return episodeStats{}, err
	}
	for _, s := range samples {
		s.Episode = res.Episode
		if err := w.Write(s); err != nil {
			w.Close()
			return episodeStats{}, err
		}
	}
	if err := w.Close(); err != nil {
		return episodeStats{}, err
	}
	return episodeStats{Model: model, File: path, Samples: len(samples), Result: res}, nil
}
