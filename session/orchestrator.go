package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"adpredict/model"
	"adpredict/preprocess"
)

// ErrNotReady is returned when a prediction is attempted before both
// artifacts have loaded. It is the only recognized non-fatal error
// path after startup.
var ErrNotReady = errors.New("session not ready")

type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

const defaultCacheSize = 512

// Orchestrator owns the session lifecycle: it loads both artifacts,
// gates predictions on readiness, and runs the encode-scale-predict
// pipeline. Load failures are terminal; there is no retry and no
// partial-functionality mode.
type Orchestrator struct {
	configURI string
	modelURI  string

	configLoader *preprocess.Loader
	modelLoader  *model.Loader
	logger       *zap.Logger

	cache *lru.Cache[string, float64]

	mu      sync.RWMutex
	state   State
	cause   error
	session *Session
}

type Options struct {
	ConfigURI   string
	ModelURI    string
	LoadTimeout time.Duration
	CacheSize   int
	Calendar    *preprocess.CalendarContext
	Logger      *zap.Logger
}

func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.ConfigURI == "" || opts.ModelURI == "" {
		return nil, errors.New("config and model URIs are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, float64](size)
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		configURI:    opts.ConfigURI,
		modelURI:     opts.ModelURI,
		configLoader: preprocess.NewLoader(opts.LoadTimeout),
		modelLoader:  model.NewLoader(opts.LoadTimeout),
		logger:       opts.Logger,
		cache:        cache,
		state:        StateUninitialized,
	}
	o.session = &Session{Calendar: preprocess.DefaultCalendar}
	if opts.Calendar != nil {
		o.session.Calendar = *opts.Calendar
	}
	return o, nil
}

// Load fetches the preprocessing config and the model concurrently.
// Both must succeed before the session becomes Ready; either failure
// transitions to the terminal Failed state. On success an initial
// prediction for the default form state is computed.
func (o *Orchestrator) Load(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateUninitialized {
		o.mu.Unlock()
		return fmt.Errorf("load already attempted in state %s", o.state)
	}
	o.state = StateLoading
	o.mu.Unlock()

	var (
		cfg *preprocess.Config
		mdl model.Model
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := o.configLoader.Load(gctx, o.configURI)
		if err != nil {
			LoadFailures.WithLabelValues("config").Inc()
			return err
		}
		cfg = loaded
		return nil
	})
	g.Go(func() error {
		loaded, err := o.modelLoader.Load(gctx, o.modelURI)
		if err != nil {
			LoadFailures.WithLabelValues("model").Inc()
			return err
		}
		mdl = loaded
		return nil
	})

	if err := g.Wait(); err != nil {
		o.fail(err)
		return err
	}

	if mdl.InputWidth() != len(cfg.FeaturesOrder) {
		err := fmt.Errorf("%w: model expects %d features, config orders %d",
			model.ErrShapeMismatch, mdl.InputWidth(), len(cfg.FeaturesOrder))
		o.fail(err)
		return err
	}

	o.mu.Lock()
	o.session = &Session{Config: cfg, Model: mdl, Calendar: o.session.Calendar}
	o.state = StateReady
	o.mu.Unlock()

	ModelLoaded.WithLabelValues(mdl.Name()).Set(1)
	o.logger.Info("session ready",
		zap.String("model", mdl.Name()),
		zap.Int("features", len(cfg.FeaturesOrder)))

	if p, err := o.Predict(o.session.DefaultInput()); err == nil {
		o.logger.Info("initial prediction", zap.Float64("probability", p))
	}
	return nil
}

func (o *Orchestrator) fail(err error) {
	o.mu.Lock()
	o.state = StateFailed
	o.cause = err
	o.mu.Unlock()
	o.logger.Error("session load failed", zap.Error(err))
}

// State returns the current state and, in Failed, the terminal cause.
func (o *Orchestrator) State() (State, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state, o.cause
}

// Session returns the immutable session context, or nil before Ready.
func (o *Orchestrator) Session() *Session {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.state != StateReady {
		return nil
	}
	return o.session
}

// Predict runs the full pipeline for one form state. Before Ready it
// returns ErrNotReady. Identical consecutive inputs are answered from
// the result cache. Concurrent calls race freely; callers present the
// last result they receive.
func (o *Orchestrator) Predict(in preprocess.RawInput) (float64, error) {
	o.mu.RLock()
	state := o.state
	s := o.session
	o.mu.RUnlock()

	if state != StateReady {
		o.logger.Warn("prediction attempted before ready", zap.String("state", string(state)))
		return 0, ErrNotReady
	}

	key := fingerprint(in)
	if p, ok := o.cache.Get(key); ok {
		CacheHits.Inc()
		return p, nil
	}

	start := time.Now()
	vector, err := s.Config.Encode(in, s.Calendar)
	if err != nil {
		PredictionErrors.Inc()
		o.logger.Error("encode failed", zap.Error(err))
		return 0, err
	}
	scaled, err := s.Config.Scaler.Transform(vector)
	if err != nil {
		PredictionErrors.Inc()
		o.logger.Error("scale failed", zap.Error(err))
		return 0, err
	}
	p, err := s.Model.Predict(scaled)
	if err != nil {
		PredictionErrors.Inc()
		o.logger.Error("predict failed", zap.Error(err))
		return 0, err
	}
	InferenceLatency.Observe(time.Since(start).Seconds())

	outcome := "negative"
	if p > 0.5 {
		outcome = "positive"
	}
	PredictionsTotal.WithLabelValues(outcome).Inc()

	o.cache.Add(key, p)
	return p, nil
}

func fingerprint(in preprocess.RawInput) string {
	return fmt.Sprintf("%g|%g|%g|%g|%s|%s|%s",
		in.DailyTimeOnSite, in.Age, in.AreaIncome, in.DailyInternetUsage,
		in.Gender, in.Country, in.AdTopic)
}
