package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-status-console/internal/form"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/i18n"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmployeeNotFound = employee.ErrEmployeeNotFound
	ErrNotReady         = errors.New("directory not ready")
)

type Phase int

const (
	PhaseUnmounted Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unmounted"
	}
}

// Config holds directory view configuration
type Config struct {
	Messages    i18n.Localizer
	FeedbackTTL time.Duration // default: form.DefaultFeedbackTTL
	OnChange    func()
	// OnLoaded receives the status vocabulary of every successful load.
	OnLoaded func(employee.StatusVocabulary)
}

// Row is one employee and the state of its form.
type Row struct {
	Employee employee.Employee
	Form     form.State
}

type Snapshot struct {
	Phase      Phase
	Error      string
	Rows       []Row
	Vocabulary employee.StatusVocabulary
	Empty      bool
}

// View lists employees and owns one editable form per employee.
type View struct {
	client employee.Client
	config Config

	mu         sync.Mutex
	phase      Phase
	loadErr    string
	loadSeq    uint64
	employees  []employee.Employee
	vocabulary employee.StatusVocabulary
	forms      map[int64]*form.Form
	loads      sync.WaitGroup
}

func NewView(client employee.Client, cfg Config) *View {
	if cfg.FeedbackTTL <= 0 {
		cfg.FeedbackTTL = form.DefaultFeedbackTTL
	}
	return &View{
		client: client,
		config: cfg,
		forms:  make(map[int64]*form.Form),
	}
}

// Mount resets the view and loads it in the background. Results of any
// earlier load are discarded.
func (v *View) Mount(ctx context.Context) {
	seq := v.begin()
	v.notify()

	ctx = context.WithoutCancel(ctx)
	v.loads.Add(1)
	go func() {
		defer v.loads.Done()
		v.load(ctx, seq)
	}()
}

// Load resets the view and fetches the employees and the status vocabulary
// concurrently. The returned error is the remote failure, if any.
func (v *View) Load(ctx context.Context) error {
	seq := v.begin()
	v.notify()
	return v.load(ctx, seq)
}

// Wait blocks until background loads started by Mount have finished.
func (v *View) Wait() {
	v.loads.Wait()
}

func (v *View) begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closeFormsLocked()
	v.loadSeq++
	v.phase = PhaseLoading
	v.loadErr = ""
	v.employees = nil
	v.vocabulary = nil
	return v.loadSeq
}

func (v *View) load(ctx context.Context, seq uint64) error {
	var (
		employees  []employee.Employee
		vocabulary employee.StatusVocabulary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = v.client.ListEmployees(gctx)
		if err != nil {
			return fmt.Errorf("list employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		vocabulary, err = v.client.ListStatusOptions(gctx)
		if err != nil {
			return fmt.Errorf("list status options: %w", err)
		}
		return nil
	})
	err := g.Wait()

	v.mu.Lock()
	if seq != v.loadSeq {
		v.mu.Unlock()
		return err
	}
	if err != nil {
		slog.Error("failed to load employee directory", "error", err)
		v.phase = PhaseFailed
		v.loadErr = apiclient.Message(err, v.config.Messages.Message(i18n.DirectoryLoadFailed))
		v.mu.Unlock()
		v.notify()
		return err
	}

	v.phase = PhaseReady
	v.employees = employees
	v.vocabulary = vocabulary
	for i := range employees {
		e := employees[i]
		v.forms[e.ID] = form.New(
			form.EntityReplaced{Employee: &e, Vocabulary: vocabulary},
			form.WithFeedbackTTL(v.config.FeedbackTTL),
			form.WithOnChange(func(form.State) { v.notify() }),
		)
	}
	v.mu.Unlock()
	if v.config.OnLoaded != nil {
		v.config.OnLoaded(vocabulary)
	}
	v.notify()
	return nil
}

// Snapshot returns a copy of the view state in directory order.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		Phase:      v.phase,
		Error:      v.loadErr,
		Vocabulary: append(employee.StatusVocabulary(nil), v.vocabulary...),
	}
	if v.phase != PhaseReady {
		return snap
	}
	snap.Rows = make([]Row, 0, len(v.employees))
	for _, e := range v.employees {
		row := Row{Employee: e}
		if f, ok := v.forms[e.ID]; ok {
			row.Form = f.Snapshot()
		}
		snap.Rows = append(snap.Rows, row)
	}
	snap.Empty = len(snap.Rows) == 0
	return snap
}

// EditProfile replaces the profile draft of one employee.
func (v *View) EditProfile(id int64, draft employee.ProfileUpdate) error {
	f, _, _, err := v.formFor(id)
	if err != nil {
		return err
	}
	f.Dispatch(form.ProfileEdited{Draft: draft})
	return nil
}

// EditStatus replaces the status draft of one employee. The code is sent
// as-is; the API decides whether it is acceptable.
func (v *View) EditStatus(id int64, draft employee.StatusUpdate) error {
	f, _, _, err := v.formFor(id)
	if err != nil {
		return err
	}
	f.Dispatch(form.StatusEdited{Draft: draft})
	return nil
}

// SubmitProfile sends the profile draft of one employee. On success the
// server's employee replaces the listed one and the form resets from it.
// Remote failures are reported on the form, not returned.
func (v *View) SubmitProfile(ctx context.Context, id int64) error {
	f, seq, vocabulary, err := v.formFor(id)
	if err != nil {
		return err
	}
	state, err := f.BeginSubmit(form.TargetProfile)
	if err != nil {
		return err
	}

	updated, err := v.client.UpdateEmployee(ctx, id, state.Profile)
	if err != nil {
		slog.Error("failed to update employee", "emp_id", id, "error", err)
		f.Dispatch(form.SubmitFailed{
			Target:  form.TargetProfile,
			Message: apiclient.Message(err, v.config.Messages.Message(i18n.EmployeeSaveFailed)),
		})
		return nil
	}

	merged, ok := v.replace(seq, id, func(employee.Employee) employee.Employee { return updated })
	if !ok {
		f.Dispatch(form.SubmitAbandoned{Target: form.TargetProfile})
		return nil
	}
	f.Dispatch(form.EntityReplaced{Employee: &merged, Vocabulary: vocabulary})
	f.Dispatch(form.SubmitSucceeded{Target: form.TargetProfile, Message: v.config.Messages.Message(i18n.EmployeeSaved)})
	return nil
}

// SubmitStatus sends the status draft of one employee. On success only the
// employee's current status is replaced and the form resets from it.
func (v *View) SubmitStatus(ctx context.Context, id int64) error {
	f, seq, vocabulary, err := v.formFor(id)
	if err != nil {
		return err
	}
	state, err := f.BeginSubmit(form.TargetStatus)
	if err != nil {
		return err
	}

	status, err := v.client.UpdateEmployeeStatus(ctx, id, state.Status)
	if err != nil {
		slog.Error("failed to update employee status", "emp_id", id, "error", err)
		f.Dispatch(form.SubmitFailed{
			Target:  form.TargetStatus,
			Message: apiclient.Message(err, v.config.Messages.Message(i18n.StatusUpdateFailed)),
		})
		return nil
	}

	merged, ok := v.replace(seq, id, func(e employee.Employee) employee.Employee { return e.WithStatus(status) })
	if !ok {
		f.Dispatch(form.SubmitAbandoned{Target: form.TargetStatus})
		return nil
	}
	f.Dispatch(form.EntityReplaced{Employee: &merged, Vocabulary: vocabulary})
	f.Dispatch(form.SubmitSucceeded{Target: form.TargetStatus, Message: v.config.Messages.Message(i18n.StatusUpdated)})
	return nil
}

// Close tears the view down. Pending feedback clears are cancelled and
// results of requests still in flight are dropped.
func (v *View) Close() {
	v.mu.Lock()
	v.closeFormsLocked()
	v.loadSeq++
	v.phase = PhaseUnmounted
	v.loadErr = ""
	v.employees = nil
	v.vocabulary = nil
	v.mu.Unlock()
}

func (v *View) formFor(id int64) (*form.Form, uint64, employee.StatusVocabulary, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.phase != PhaseReady {
		return nil, 0, nil, ErrNotReady
	}
	f, ok := v.forms[id]
	if !ok {
		return nil, 0, nil, ErrEmployeeNotFound
	}
	return f, v.loadSeq, v.vocabulary, nil
}

// replace swaps the employee with the given id in place. It reports false
// when the view was reloaded or closed after seq was taken.
func (v *View) replace(seq uint64, id int64, fn func(employee.Employee) employee.Employee) (employee.Employee, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.loadSeq {
		return employee.Employee{}, false
	}
	for i := range v.employees {
		if v.employees[i].ID == id {
			v.employees[i] = fn(v.employees[i])
			return v.employees[i], true
		}
	}
	return employee.Employee{}, false
}

func (v *View) closeFormsLocked() {
	for id, f := range v.forms {
		f.Close()
		delete(v.forms, id)
	}
}

func (v *View) notify() {
	if v.config.OnChange != nil {
		v.config.OnChange()
	}
}
