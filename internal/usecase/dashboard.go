package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ForecastAI/internal/domain/models"
	drepo "ForecastAI/internal/domain/repository"
	"ForecastAI/internal/service/ratelimit"
	"ForecastAI/internal/services/advisory"
	applogger "ForecastAI/pkg/logger"
	"ForecastAI/pkg/util"
)

// lockGrace keeps the in-flight marker alive a little past the advisory timeout
// so the result can be written before another call is allowed.
const lockGrace = 10 * time.Second

// Dashboard owns the editable sessions behind the single-page dashboard.
// Edits are synchronous; the advisory call runs detached from the request that
// issued it and reports back through the session and its event stream.
type Dashboard struct {
	store      drepo.SessionStore
	events     drepo.EventPublisher
	forecaster *Forecaster
	limiter    *ratelimit.Limiter
	metrics    drepo.Metrics
	log        *applogger.Logger

	// mu serializes read-modify-write cycles on sessions.
	mu       sync.Mutex
	inflight sync.WaitGroup

	now   func() time.Time
	newID func() string
}

func NewDashboard(
	store drepo.SessionStore,
	events drepo.EventPublisher,
	forecaster *Forecaster,
	limiter *ratelimit.Limiter,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *Dashboard {
	if l == nil {
		l = applogger.Nop()
	}
	return &Dashboard{
		store:      store,
		events:     events,
		forecaster: forecaster,
		limiter:    limiter,
		metrics:    metrics,
		log:        l,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// CreateSession starts a session. A nil series starts from models.DefaultSeries.
func (d *Dashboard) CreateSession(ctx context.Context, series models.Series) (*models.Session, error) {
	if series == nil {
		series = models.DefaultSeries()
	}
	now := d.now()
	sess := &models.Session{
		ID:        d.newID(),
		Series:    series.Clone(),
		Advisory:  models.AdvisoryState{Status: models.AdvisoryIdle},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	d.metrics.RecordSessionOp("create")
	d.log.Debug("session created", applogger.String("session_id", sess.ID), applogger.Int("points", len(sess.Series)))
	return sess, nil
}

func (d *Dashboard) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return d.store.Get(ctx, id)
}

// AddRow appends an empty period labeled M<n+1>.
func (d *Dashboard) AddRow(ctx context.Context, id string) (*models.Session, error) {
	return d.editSeries(ctx, id, "add_row", func(s models.Series) (models.Series, error) {
		return append(s, models.SeriesPoint{Label: fmt.Sprintf("M%d", len(s)+1)}), nil
	})
}

// RemoveRow deletes the period at index. The series may become empty.
func (d *Dashboard) RemoveRow(ctx context.Context, id string, index int) (*models.Session, error) {
	return d.editSeries(ctx, id, "remove_row", func(s models.Series) (models.Series, error) {
		if index < 0 || index >= len(s) {
			return nil, fmt.Errorf("%w: %d of %d", models.ErrRowOutOfRange, index, len(s))
		}
		return append(s[:index], s[index+1:]...), nil
	})
}

// UpdateRow edits the label and/or value of the period at index. The value is the
// raw input text: anything that does not parse as a finite number becomes 0.
func (d *Dashboard) UpdateRow(ctx context.Context, id string, index int, label *string, value *models.RawAmount) (*models.Session, error) {
	return d.editSeries(ctx, id, "update_row", func(s models.Series) (models.Series, error) {
		if index < 0 || index >= len(s) {
			return nil, fmt.Errorf("%w: %d of %d", models.ErrRowOutOfRange, index, len(s))
		}
		if label != nil {
			s[index].Label = *label
		}
		if value != nil {
			s[index].Value = util.ParseFloatDefault(string(*value), 0)
		}
		return s, nil
	})
}

// Forecast projects the current series of a session.
func (d *Dashboard) Forecast(ctx context.Context, id string) (models.Projection, error) {
	sess, err := d.store.Get(ctx, id)
	if err != nil {
		return models.Projection{}, err
	}
	return d.forecaster.Project(sess.Series), nil
}

// AdvisoryState returns the last advisory outcome of a session.
func (d *Dashboard) AdvisoryState(ctx context.Context, id string) (models.AdvisoryState, error) {
	sess, err := d.store.Get(ctx, id)
	if err != nil {
		return models.AdvisoryState{}, err
	}
	return sess.Advisory, nil
}

// RequestAdvisory issues the advisory call for the current series and returns the
// pending session right away. Short series set the session error and fail with
// models.ErrInsufficientData; a second call while one is outstanding fails with
// models.ErrAdvisoryInFlight.
func (d *Dashboard) RequestAdvisory(ctx context.Context, id string) (*models.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sess, err := d.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := advisory.CheckSufficient(sess.Series); err != nil {
		sess.Advisory.Error = models.InsufficientDataMessage
		sess.UpdatedAt = d.now()
		if err := d.store.Save(ctx, sess); err != nil {
			return nil, err
		}
		d.publish(models.EventSnapshot, sess, nil)
		d.metrics.RecordAdvisory(d.forecaster.Provider(), OutcomeRejected)
		return nil, err
	}

	ok, err := d.store.AcquireAdvisory(ctx, id, d.forecaster.Timeout()+lockGrace)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrAdvisoryInFlight
	}
	if !d.limiter.Allow(id) {
		d.release(id)
		return nil, models.ErrAdvisoryRateLimited
	}

	now := d.now()
	sess.Advisory.Status = models.AdvisoryPending
	sess.Advisory.Error = ""
	sess.Advisory.RequestedAt = &now
	sess.Advisory.ResolvedAt = nil
	sess.UpdatedAt = now
	if err := d.store.Save(ctx, sess); err != nil {
		d.release(id)
		return nil, err
	}

	d.metrics.RecordSessionOp("advisory")
	d.publish(models.EventAdvisoryPending, sess, nil)

	series := sess.Series.Clone()
	d.inflight.Add(1)
	go d.runAdvisory(id, series)

	return sess, nil
}

// runAdvisory is detached from the issuing request: it is bounded only by the
// forecaster timeout.
func (d *Dashboard) runAdvisory(id string, series models.Series) {
	defer d.inflight.Done()
	defer d.release(id)

	analysis, callErr := d.forecaster.Analyze(context.Background(), series)

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx := context.Background()
	sess, err := d.store.Get(ctx, id)
	if err != nil {
		d.log.Warn("advisory result dropped", applogger.String("session_id", id), applogger.Error(err))
		return
	}

	now := d.now()
	sess.Advisory.ResolvedAt = &now
	sess.UpdatedAt = now
	evType := models.EventAdvisorySucceeded
	if callErr != nil {
		// The previous analysis, if any, stays visible.
		sess.Advisory.Status = models.AdvisoryFailed
		sess.Advisory.Error = models.AdvisoryFailedMessage
		evType = models.EventAdvisoryFailed
		d.log.Warn("advisory failed", applogger.String("session_id", id), applogger.Error(callErr))
	} else {
		sess.Advisory.Status = models.AdvisorySucceeded
		sess.Advisory.Error = ""
		sess.Advisory.Analysis = &analysis
		d.log.Info("advisory succeeded", applogger.String("session_id", id), applogger.String("trend", string(analysis.Trend)))
	}

	if err := d.store.Save(ctx, sess); err != nil {
		d.log.Error("save advisory result", applogger.String("session_id", id), applogger.Error(err))
		return
	}
	d.publish(evType, sess, nil)
}

// Drain waits for outstanding advisory calls or for ctx to end.
func (d *Dashboard) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dashboard) editSeries(ctx context.Context, id, op string, edit func(models.Series) (models.Series, error)) (*models.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sess, err := d.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	series, err := edit(sess.Series.Clone())
	if err != nil {
		return nil, err
	}
	if series == nil {
		series = models.Series{}
	}
	sess.Series = series
	sess.UpdatedAt = d.now()

	if err := d.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	d.metrics.RecordSessionOp(op)
	proj := d.forecaster.Project(sess.Series)
	d.publish(models.EventSeriesUpdated, sess, &proj)
	return sess, nil
}

func (d *Dashboard) release(id string) {
	if err := d.store.ReleaseAdvisory(context.Background(), id); err != nil && !errors.Is(err, models.ErrSessionNotFound) {
		d.log.Warn("release advisory lock", applogger.String("session_id", id), applogger.Error(err))
	}
}

func (d *Dashboard) publish(t models.SessionEventType, sess *models.Session, proj *models.Projection) {
	if d.events == nil {
		return
	}
	snapshot := *sess
	snapshot.Series = sess.Series.Clone()
	d.events.Publish(models.SessionEvent{
		Type:      t,
		SessionID: sess.ID,
		Session:   &snapshot,
		Forecast:  proj,
		At:        d.now(),
	})
}
