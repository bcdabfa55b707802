package replay

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tayzer/compareengine/internal/engineconfig"
	"github.com/tayzer/compareengine/internal/modelregistry"
	"github.com/tayzer/compareengine/internal/pipeline"
	"github.com/tayzer/compareengine/internal/progress"
	"github.com/tayzer/compareengine/internal/ruleengine"
)

// Job runs one comparison to completion: either replaying a request corpus
// against two HTTP endpoints, or comparing two on-disk directories directly
// (spec §4.7). A Job is single-use; create a fresh one per run with NewJob.
type Job struct {
	Config    pipeline.JobConfig
	Registry  *modelregistry.Registry
	Rules     *ruleengine.CompiledRules
	Publisher *progress.Publisher
	Cancel    *progress.CancelToken
	Client    *http.Client
	TempRoot  string
	Engine    *engineconfig.EngineConfig

	logger *slog.Logger
}

// NewJob compiles cfg's rules once, up front, so the structural phase never
// bleeds rule state across jobs (spec §4.7, "The job is responsible for
// resetting the rule engine before the structural phase"). Engine-level
// defaults (worker pool size, HTTP timeout, temp-directory root) are taken
// from engineconfig.DefaultEngineConfig() and used wherever cfg leaves the
// corresponding field unset; no config file, environment or override layer
// is consulted here.
func NewJob(cfg pipeline.JobConfig, registry *modelregistry.Registry, sink progress.Sink) (*Job, error) {
	rules, err := ruleengine.Compile(cfg.Rules)
	if err != nil {
		return nil, pipeline.NewJobError(string(pipeline.PhaseInitializing), "compiling rules", err)
	}

	engine := engineconfig.DefaultEngineConfig()

	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = time.Duration(engine.TimeoutMS) * time.Millisecond
	}

	return &Job{
		Config:    cfg,
		Registry:  registry,
		Rules:     rules,
		Publisher: progress.NewPublisher(cfg.JobID, sink),
		Cancel:    progress.NewCancelToken(context.Background()),
		Client:    &http.Client{Timeout: timeout},
		TempRoot:  filepath.Join(engine.TempRoot, cfg.JobID),
		Engine:    engine,
		logger:    slog.Default().With("component", "replay", "job_id", cfg.JobID),
	}, nil
}

// Run drives the job to Completed, Cancelled, or Failed. On cancellation it
// reports the last observed percent and discards partial aggregation (spec
// §4.10, "Partial results are discarded").
func (j *Job) Run(ctx context.Context) (*pipeline.MultiFolderComparisonResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-j.Cancel.Context().Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	j.Publisher.Publish(pipeline.PhaseInitializing, 0, "initializing", 0, 0, true)

	var (
		result *pipeline.MultiFolderComparisonResult
		err    error
	)
	if j.Config.IsRequestReplay() {
		result, err = j.runRequestReplay(ctx)
	} else {
		result, err = j.runFolderCompare(ctx)
	}

	if err != nil {
		if ctx.Err() != nil {
			j.Publisher.Publish(pipeline.PhaseCancelled, j.Publisher.Percent(), "cancelled", 0, 0, true)
			return nil, ctx.Err()
		}
		j.Publisher.PublishError(j.Publisher.Percent(), err.Error())
		return nil, err
	}
	return result, nil
}

func (j *Job) runRequestReplay(ctx context.Context) (*pipeline.MultiFolderComparisonResult, error) {
	j.Publisher.Publish(pipeline.PhaseParsing, 0, "scanning request batch", 0, 0, true)
	relPaths, err := listRequestFiles(j.Config.RequestBatchDir)
	if err != nil {
		return nil, pipeline.NewJobError(string(pipeline.PhaseParsing), "scanning request batch", err)
	}
	j.Publisher.Publish(pipeline.PhaseParsing, 5, fmt.Sprintf("found %d requests", len(relPaths)), len(relPaths), len(relPaths), true)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	execResults, err := j.executeAll(ctx, relPaths)
	if err != nil {
		return nil, err
	}
	j.Publisher.Publish(pipeline.PhaseExecuting, 75, "execution complete", len(execResults), len(execResults), true)

	pairResults := j.classifyAndCompare(execResults)

	execSummary := map[string]int{}
	var failed []string
	for _, er := range execResults {
		execSummary[string(classifyOutcome(er))]++
		if !er.OK {
			failed = append(failed, er.Request.RelativePath)
		}
	}

	result := buildResult(j.Config.JobID, pairResults, execSummary, failed)
	j.Publisher.Publish(pipeline.PhaseCompleted, 100, "completed", len(pairResults), len(pairResults), true)
	return result, nil
}

func (j *Job) runFolderCompare(ctx context.Context) (*pipeline.MultiFolderComparisonResult, error) {
	j.Publisher.Publish(pipeline.PhaseParsing, 0, "discovering files", 0, 0, true)
	pairs, err := discoverPairs(ctx, j.Config.DirA, j.Config.DirB, j.Config.IncludeAll)
	if err != nil {
		return nil, pipeline.NewJobError(string(pipeline.PhaseParsing), "discovering files", err)
	}
	j.Publisher.Publish(pipeline.PhaseParsing, 5, fmt.Sprintf("found %d pairs", len(pairs)), len(pairs), len(pairs), true)

	results := make([]pipeline.FilePairResult, len(pairs))
	for i, p := range pairs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		results[i] = j.compareDiscoveredPair(p)
		percent := 5 + 90*float64(i+1)/float64(max(1, len(pairs)))
		j.Publisher.Publish(pipeline.PhaseComparing, percent, "", i+1, len(pairs), false)
	}

	result := buildResult(j.Config.JobID, results, nil, nil)
	j.Publisher.Publish(pipeline.PhaseCompleted, 100, "completed", len(results), len(results), true)
	return result, nil
}

// executeAll runs every request through a worker pool bounded by
// max_concurrency (spec §5, "across pairs within a job"). Per-task errors
// never abort the job; they surface as ONE_OR_BOTH_FAILED outcomes.
func (j *Job) executeAll(ctx context.Context, relPaths []string) ([]pipeline.ExecutionResult, error) {
	n := len(relPaths)
	results := make([]pipeline.ExecutionResult, n)

	concurrency := j.Config.MaxConcurrency
	if concurrency <= 0 {
		concurrency = j.Engine.MaxConcurrency
	}

	endpoints := requestEndpoints{
		endpointA:      j.Config.EndpointA,
		endpointB:      j.Config.EndpointB,
		globalHeadersA: j.Config.GlobalHeadersA,
		globalHeadersB: j.Config.GlobalHeadersB,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	var completed atomic.Int64

	for i, relPath := range relPaths {
		i, relPath := i, relPath
		g.Go(func() error {
			task, err := loadRequestTask(j.Config.RequestBatchDir, relPath)
			if err != nil {
				results[i] = pipeline.ExecutionResult{Error: err.Error()}
			} else {
				results[i] = executeRequestPair(gctx, j.Client, j.TempRoot, endpoints, task)
			}
			done := completed.Add(1)
			percent := 5 + 70*float64(done)/float64(n)
			j.Publisher.Publish(pipeline.PhaseExecuting, percent, "", int(done), n, false)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return results, nil
}

// classifyAndCompare turns execution results into FilePairResults: BOTH_SUCCESS
// pairs go through the structural engine, everything else through the
// raw-text fallback (spec §4.7 phases "Structural compare" / "Raw-text
// compare").
func (j *Job) classifyAndCompare(execResults []pipeline.ExecutionResult) []pipeline.FilePairResult {
	n := len(execResults)
	out := make([]pipeline.FilePairResult, n)

	var successIdx, fallbackIdx []int
	for i, er := range execResults {
		outcome := classifyOutcome(er)
		fpr := pipeline.FilePairResult{
			FileAName:   er.Request.RelativePath,
			FileBName:   er.Request.RelativePath,
			HTTPStatusA: er.StatusA,
			HTTPStatusB: er.StatusB,
			PairOutcome: &outcome,
		}
		if !er.OK && er.Error != "" {
			fpr.Error = er.Error
			fpr.ErrorKind = pipeline.ErrorKindTransport
		}
		out[i] = fpr

		switch {
		case outcome == pipeline.OutcomeBothSuccess:
			successIdx = append(successIdx, i)
		case er.OK:
			fallbackIdx = append(fallbackIdx, i)
		}
	}
	j.Publisher.Publish(pipeline.PhaseComparing, 75, "classifying outcomes", n, n, true)

	for k, i := range successIdx {
		er := execResults[i]
		bodyA := readFileOrEmpty(er.RespPathA)
		bodyB := readFileOrEmpty(er.RespPathB)
		cmp, err := compareBytes(j.Registry, j.Rules, j.Config.ModelName, bodyA, bodyB, er.Request.ContentType, er.Request.ContentType)
		if err != nil {
			out[i].Error = err.Error()
			out[i].ErrorKind = pipeline.ErrorKindParse
		} else {
			cmp.FileAName = out[i].FileAName
			cmp.FileBName = out[i].FileBName
			cmp.HTTPStatusA = out[i].HTTPStatusA
			cmp.HTTPStatusB = out[i].HTTPStatusB
			cmp.PairOutcome = out[i].PairOutcome
			out[i] = cmp
		}
		percent := 75 + 20*float64(k+1)/float64(max(1, len(successIdx)))
		j.Publisher.Publish(pipeline.PhaseComparing, percent, "", k+1, len(successIdx), false)
	}

	for k, i := range fallbackIdx {
		er := execResults[i]
		bodyA := readFileOrEmpty(er.RespPathA)
		bodyB := readFileOrEmpty(er.RespPathB)
		raw := rawTextResult(er.StatusA, er.StatusB, bodyA, bodyB)
		out[i].AreEqual = raw.AreEqual
		out[i].RawTextDiffs = raw.RawTextDiffs
		percent := 95 + 5*float64(k+1)/float64(max(1, len(fallbackIdx)))
		j.Publisher.Publish(pipeline.PhaseComparing, percent, "", k+1, len(fallbackIdx), false)
	}

	return out
}

func (j *Job) compareDiscoveredPair(p filePair) pipeline.FilePairResult {
	result := pipeline.FilePairResult{FileAName: p.relPath, FileBName: p.relPath}
	if p.fileA == nil || p.fileB == nil {
		result.Error = "file present on only one side"
		result.ErrorKind = pipeline.ErrorKindParse
		return result
	}

	cmp, err := compareBytes(j.Registry, j.Rules, j.Config.ModelName, p.fileA.Content, p.fileB.Content, contentTypeFor(p.relPath), contentTypeFor(p.relPath))
	if err != nil {
		result.Error = err.Error()
		result.ErrorKind = pipeline.ErrorKindParse
		return result
	}
	cmp.FileAName = p.relPath
	cmp.FileBName = p.relPath
	return cmp
}
