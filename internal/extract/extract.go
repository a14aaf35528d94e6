// Package extract turns a blob of loosely structured page text into
// canonical pick records: heuristic matchup detection, field extraction,
// normalization, and structural validation. Everything here is pure text
// processing; identity assignment and dedup live in the dedup package.
package extract

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/pickwatch/internal/config"
	"github.com/sells-group/pickwatch/internal/model"
)

// Engine runs the extraction pipeline over page text.
type Engine struct {
	cfg config.ExtractConfig
	now func() time.Time
}

// NewEngine creates an Engine, filling zero config values with defaults.
func NewEngine(cfg config.ExtractConfig) *Engine {
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = 600
	}
	if cfg.MaxAnalysisLen <= 0 {
		cfg.MaxAnalysisLen = 240
	}
	return &Engine{cfg: cfg, now: time.Now}
}

// Result holds one extraction pass's output.
type Result struct {
	Picks []model.Pick

	// Candidates counts raw matches before field extraction and
	// validation, for run reporting.
	Candidates int
}

// Extract runs the full pipeline: candidates, fields, normalization,
// validation, in-page dedup. Empty or junk input yields an empty result,
// never an error; a panic anywhere in the heuristics is absorbed so a
// malformed page can only cost picks, not the run.
func (e *Engine) Extract(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("extract: recovered from panic", zap.Any("panic", r))
		}
	}()

	candidates := e.FindCandidates(text)
	res.Candidates = len(candidates)

	seen := make(map[string]struct{})
	for _, c := range candidates {
		pick := e.buildPick(c)
		pick.Pairing = Clean(pick.Pairing)
		pick.Selection = Clean(pick.Selection)
		pick.Analysis = e.CleanAnalysis(pick.Analysis)
		pick.CreatedAt = e.now().UTC()

		if !Valid(pick) {
			continue
		}

		// Overlapping rules can produce the same pick twice from one
		// page; keep the first occurrence.
		key := pick.Pairing + "|" + pick.Selection
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		res.Picks = append(res.Picks, pick)
	}
	return res
}
