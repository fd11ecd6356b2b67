package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"github.com/shandysiswandi/gonotif/internal/notification/template"
	"github.com/shandysiswandi/gonotif/internal/pkg/clock"
	"github.com/shandysiswandi/gonotif/internal/pkg/goerror"
	"github.com/shandysiswandi/gonotif/internal/pkg/goroutine"
	"github.com/shandysiswandi/gonotif/internal/pkg/idempotency"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/jwt"
	"github.com/shandysiswandi/gonotif/internal/pkg/phone"
	"github.com/shandysiswandi/gonotif/internal/pkg/validator"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

const staffNumber = "9000000001"

type fakeRepo struct {
	mu    sync.Mutex
	clock clock.Clocker
	logs  map[int64]*entity.MessageLog
	flags map[string]int64

	createErr error
	updateErr error
	stale     []entity.MessageLog
	staleArgs []any
	sumArgs   []time.Time
}

func newFakeRepo(clk clock.Clocker) *fakeRepo {
	return &fakeRepo{clock: clk, logs: map[int64]*entity.MessageLog{}, flags: map[string]int64{}}
}

func (r *fakeRepo) CreateMessageLogWithFlag(_ context.Context, key entity.FlagKey, ml entity.CreateMessageLog) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return false, r.createErr
	}
	if _, ok := r.flags[key.String()]; ok {
		return false, nil
	}
	r.flags[key.String()] = ml.ID

	now := r.clock.Now()
	r.logs[ml.ID] = &entity.MessageLog{
		ID:             ml.ID,
		EventType:      ml.EventType,
		CustomerPhone:  ml.CustomerPhone,
		CustomerName:   ml.CustomerName,
		MessageContent: ml.MessageContent,
		Status:         ml.Status,
		ReferenceType:  ml.ReferenceType,
		ReferenceID:    ml.ReferenceID,
		ErrorMessage:   ml.ErrorMessage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return true, nil
}

func (r *fakeRepo) GetMessageLog(_ context.Context, id int64) (*entity.MessageLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ml, ok := r.logs[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *ml
	return &cp, nil
}

func (r *fakeRepo) UpdateMessageLogStatus(_ context.Context, u entity.UpdateMessageLogStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	ml, ok := r.logs[u.ID]
	if !ok || ml.Status == entity.StatusSent || !slices.Contains(u.From, ml.Status) {
		return goerror.ErrConflict
	}

	ml.Status = u.To
	if u.ErrorMessage != "" {
		ml.ErrorMessage = u.ErrorMessage
	}
	if u.IncrementRetry {
		ml.RetryCount++
	}
	if u.SentAt != nil {
		ml.SentAt = u.SentAt
	}
	ml.UpdatedAt = r.clock.Now()
	return nil
}

func (r *fakeRepo) filtered(f entity.MessageLogFilter) []entity.MessageLog {
	out := []entity.MessageLog{}
	for _, ml := range r.logs {
		if f.Status != "" && ml.Status != f.Status {
			continue
		}
		if f.EventType != "" && ml.EventType != f.EventType {
			continue
		}
		if f.Search != "" && !strings.Contains(ml.CustomerPhone, f.Search) && !strings.Contains(ml.CustomerName, f.Search) {
			continue
		}
		out = append(out, *ml)
	}
	slices.SortFunc(out, func(a, b entity.MessageLog) int { return int(b.ID - a.ID) })
	return out
}

func (r *fakeRepo) ListMessageLogs(_ context.Context, f entity.MessageLogFilter) ([]entity.MessageLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.filtered(f)
	start := min(int(f.Offset), len(all))
	end := min(start+int(f.Limit), len(all))
	return all[start:end], nil
}

func (r *fakeRepo) CountMessageLogs(_ context.Context, f entity.MessageLogFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.filtered(f))), nil
}

func (r *fakeRepo) SummarizeMessageLogs(_ context.Context, todayStart, weekStart time.Time) (*entity.MessageLogSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sumArgs = []time.Time{todayStart, weekStart}

	sum := &entity.MessageLogSummary{Total: int64(len(r.logs))}
	for _, ml := range r.logs {
		switch ml.Status {
		case entity.StatusSent:
			sum.Sent++
		case entity.StatusFailed:
			sum.Failed++
		case entity.StatusPending:
			sum.Pending++
		case entity.StatusRetrying:
			sum.Retrying++
		}
	}
	return sum, nil
}

func (r *fakeRepo) ListStaleMessageLogs(_ context.Context, before time.Time, limit int32) ([]entity.MessageLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.staleArgs = []any{before, limit}
	return r.stale, nil
}

func (r *fakeRepo) seed(ml entity.MessageLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[ml.ID] = &ml
}

func (r *fakeRepo) ListMessageLogsByReference(_ context.Context, refType entity.ReferenceType, refID int64) ([]entity.MessageLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []entity.MessageLog{}
	for _, ml := range r.logs {
		if ml.ReferenceType == refType && ml.ReferenceID == refID {
			out = append(out, *ml)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListFlaggedEvents(_ context.Context, refType entity.ReferenceType, refID int64) ([]entity.EventType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []entity.EventType{}
	prefix := fmt.Sprintf("%s:%d:", refType, refID)
	for k := range r.flags {
		if ev, ok := strings.CutPrefix(k, prefix); ok {
			out = append(out, entity.EventType(ev))
		}
	}
	slices.Sort(out)
	return out, nil
}

func (r *fakeRepo) log(t *testing.T, id int64) entity.MessageLog {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	ml, ok := r.logs[id]
	require.True(t, ok, "log %d missing", id)
	return *ml
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

// scriptedSender replays results in order and repeats the last one.
type scriptedSender struct {
	mu      sync.Mutex
	results []entity.SendResult
	calls   int
	bodies  []string
}

func (s *scriptedSender) Send(_ context.Context, _ string, body string) entity.SendResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bodies = append(s.bodies, body)
	idx := s.calls
	s.calls++
	if len(s.results) == 0 {
		return entity.SendResult{Status: entity.SendSuccess}
	}
	return s.results[min(idx, len(s.results)-1)]
}

func (s *scriptedSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeMQ struct {
	mu       sync.Mutex
	outcomes []entity.MessageLog
}

func (m *fakeMQ) PublishOutcome(_ context.Context, ml entity.MessageLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, ml)
	return nil
}

type fakeExport struct {
	filename string
	data     []byte
	err      error
}

func (e *fakeExport) UploadExport(_ context.Context, filename string, data []byte) (string, time.Duration, error) {
	e.filename = filename
	e.data = data
	return "https://objects.local/" + filename, 15 * time.Minute, e.err
}

// policyEnforcer allows "ROLE:object:action" entries.
type policyEnforcer map[string]bool

func (p policyEnforcer) Enforce(rvals ...any) (bool, error) {
	parts := make([]string, len(rvals))
	for i, v := range rvals {
		parts[i] = fmt.Sprint(v)
	}
	return p[strings.Join(parts, ":")], nil
}

type inlinePool struct{}

func (inlinePool) Submit(task goroutine.Task) error {
	return task(context.Background())
}

// queuePool holds submitted tasks until drain runs them in order.
type queuePool struct {
	mu    sync.Mutex
	tasks []goroutine.Task
}

func (p *queuePool) Submit(task goroutine.Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
	return nil
}

func (p *queuePool) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// drain runs queued tasks, including those they queue, until none are left.
func (p *queuePool) drain(t *testing.T) {
	t.Helper()
	for {
		p.mu.Lock()
		if len(p.tasks) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.tasks[0]
		p.tasks = p.tasks[1:]
		p.mu.Unlock()

		require.NoError(t, task(context.Background()))
	}
}

type fullPool struct{}

func (fullPool) Submit(goroutine.Task) error { return goroutine.ErrPoolFull }

type passGuard struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (g *passGuard) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	g.mu.Lock()
	g.keys = append(g.keys, key)
	err := g.err
	g.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(ctx)
}

type seqID struct{ n atomic.Int64 }

func (s *seqID) Generate() int64 { return s.n.Inc() }

type testEnv struct {
	uc     *Usecase
	repo   *fakeRepo
	sender *scriptedSender
	mq     *fakeMQ
	export *fakeExport
	guard  *passGuard
	clock  *clock.Fake
	delays []time.Duration
}

func newTestEnv(t *testing.T, pool taskSubmitter, results ...entity.SendResult) *testEnv {
	t.Helper()

	clk := clock.NewFake(testNow)
	renderer, err := template.NewRenderer(template.Defaults("Acme Service"))
	require.NoError(t, err)
	pv, err := phone.NewValidator([]string{staffNumber})
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	env := &testEnv{
		repo:   newFakeRepo(clk),
		sender: &scriptedSender{results: results},
		mq:     &fakeMQ{},
		export: &fakeExport{},
		guard:  &passGuard{},
		clock:  clk,
	}

	env.uc = NewNotification(Dependency{
		RepoDB:     env.repo,
		RepoMQ:     env.mq,
		RepoExport: env.export,
		Sender:     env.sender,
		Renderer:   renderer,
		Phone:      pv,
		Enforcer: policyEnforcer{
			"ADMIN:notification.logs:view":          true,
			"ADMIN:notification.logs:retry":         true,
			"ADMIN:notification.logs:export":        true,
			"ADMIN:notification.triggers:trigger":   true,
			"RECEPTION:notification.logs:view":      true,
			"SERVICE:notification.triggers:trigger": true,
		},
		Pool:       pool,
		Guard:      env.guard,
		UID:        &seqID{},
		Clock:      clk,
		Validator:  v,
		Instrument: instrument.NewNoop(),
		Settings: Settings{
			FrontendURL: "https://portal.example.com/",
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    4 * time.Second,
			MaxElapsed:  time.Minute,
		},
	})

	// retries run at once; the recorded delays stand in for the wait
	env.uc.afterFunc = func(d time.Duration, f func()) {
		env.delays = append(env.delays, d)
		env.clock.Advance(d)
		f()
	}

	return env
}

func asRole(role string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 11, Role: role})
}

func serviceCreated(refID int64, rawPhone string) TriggerInput {
	return TriggerInput{
		EventType:     entity.EventServiceCreated.String(),
		ReferenceType: entity.ReferenceComplaint.String(),
		ReferenceID:   refID,
		CustomerName:  "Ravi Kumar",
		CustomerPhone: rawPhone,
		Payload: map[string]string{
			template.VarTicketID:      "SRV-42",
			template.VarServiceType:   "AC Repair",
			template.VarScheduledDate: "12/03/2026",
			template.VarTrackingLink:  "https://portal.example.com/track/SRV-42",
		},
	}
}
