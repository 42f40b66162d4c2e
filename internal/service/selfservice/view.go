package selfservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-status-console/internal/form"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

var (
	ErrLoginIDRequired   = employee.ErrLoginIDRequired
	ErrEmployeeNotLinked = employee.ErrEmployeeNotLinked
)

type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseLoading
	PhaseLinked
	PhaseNotLinked
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLinked:
		return "linked"
	case PhaseNotLinked:
		return "not_linked"
	default:
		return "empty"
	}
}

// Config holds self-service view configuration
type Config struct {
	Messages    i18n.Localizer
	FeedbackTTL time.Duration // default: form.DefaultFeedbackTTL
	OnChange    func()
}

type Snapshot struct {
	Phase      Phase
	LoginID    string
	Profile    *employee.MemberProfile
	Vocabulary employee.StatusVocabulary
	Form       form.State
}

// View lets a member look up and edit their own profile by login ID.
type View struct {
	client employee.Client
	config Config
	form   *form.Form

	mu          sync.Mutex
	phase       Phase
	loginID     string
	profile     *employee.MemberProfile
	vocabulary  employee.StatusVocabulary
	vocabLoaded bool
	lookupSeq   uint64
	closed      bool
}

func NewView(client employee.Client, cfg Config) *View {
	if cfg.FeedbackTTL <= 0 {
		cfg.FeedbackTTL = form.DefaultFeedbackTTL
	}
	v := &View{
		client: client,
		config: cfg,
	}
	v.form = form.New(
		form.EntityReplaced{},
		form.WithFeedbackTTL(cfg.FeedbackTTL),
		form.WithOnChange(func(form.State) { v.notify() }),
	)
	return v
}

// SetVocabulary supplies a status vocabulary fetched elsewhere so that
// lookups do not fetch it again.
func (v *View) SetVocabulary(vocabulary employee.StatusVocabulary) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vocabulary = append(employee.StatusVocabulary(nil), vocabulary...)
	v.vocabLoaded = true
}

// Lookup loads the member profile for rawLoginID. A blank login ID is
// reported on the form without any request. Remote failures clear the
// previous profile and are reported on the form.
func (v *View) Lookup(ctx context.Context, rawLoginID string) error {
	loginID := strings.TrimSpace(rawLoginID)
	if err := (validator.ValidationErrors{}).Required("login_id", loginID).Err(); err != nil {
		v.form.Dispatch(form.Notice{Kind: form.FeedbackError, Message: v.config.Messages.Message(i18n.LoginIDRequired)})
		return fmt.Errorf("%w: %w", ErrLoginIDRequired, err)
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return form.ErrFormClosed
	}
	v.lookupSeq++
	seq := v.lookupSeq
	v.phase = PhaseLoading
	v.loginID = loginID
	needVocabulary := !v.vocabLoaded
	vocabulary := v.vocabulary
	v.mu.Unlock()
	v.form.Dispatch(form.Notice{Kind: form.FeedbackNone})

	var profile employee.MemberProfile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = v.client.GetMemberProfile(gctx, loginID)
		if err != nil {
			return fmt.Errorf("get member profile: %w", err)
		}
		return nil
	})
	if needVocabulary {
		g.Go(func() error {
			var err error
			vocabulary, err = v.client.ListStatusOptions(gctx)
			if err != nil {
				return fmt.Errorf("list status options: %w", err)
			}
			return nil
		})
	}
	err := g.Wait()

	v.mu.Lock()
	if v.closed || seq != v.lookupSeq {
		v.mu.Unlock()
		return nil
	}
	if err != nil {
		v.phase = PhaseEmpty
		v.profile = nil
		vocabulary = v.vocabulary
		v.mu.Unlock()

		slog.Error("failed to load member profile", "login_id", loginID, "error", err)
		v.form.Dispatch(form.EntityReplaced{Vocabulary: vocabulary})
		v.form.Dispatch(form.Notice{
			Kind:    form.FeedbackError,
			Message: apiclient.Message(err, v.config.Messages.Message(i18n.MemberLoadFailed)),
		})
		return nil
	}

	if needVocabulary {
		v.vocabulary = vocabulary
		v.vocabLoaded = true
	}
	v.profile = &profile
	v.phase = phaseOf(profile)
	v.mu.Unlock()

	v.form.Dispatch(form.EntityReplaced{Employee: profile.Employee, Vocabulary: vocabulary})
	v.form.Dispatch(form.Notice{Kind: form.FeedbackSuccess, Message: v.config.Messages.Message(i18n.MemberLoaded)})
	return nil
}

// EditProfile replaces the profile draft.
func (v *View) EditProfile(draft employee.ProfileUpdate) error {
	if _, _, _, err := v.linked(); err != nil {
		return err
	}
	v.form.Dispatch(form.ProfileEdited{Draft: draft})
	return nil
}

// EditStatus replaces the status draft.
func (v *View) EditStatus(draft employee.StatusUpdate) error {
	if _, _, _, err := v.linked(); err != nil {
		return err
	}
	v.form.Dispatch(form.StatusEdited{Draft: draft})
	return nil
}

// SubmitProfile saves the profile draft of the linked employee. On success
// the returned profile replaces the loaded one and the form resets from it.
func (v *View) SubmitProfile(ctx context.Context) error {
	loginID, seq, vocabulary, err := v.linked()
	if err != nil {
		return err
	}
	state, err := v.form.BeginSubmit(form.TargetProfile)
	if err != nil {
		return err
	}

	updated, err := v.client.UpdateMemberProfile(ctx, loginID, state.Profile)
	if err != nil {
		slog.Error("failed to update member profile", "login_id", loginID, "error", err)
		v.form.Dispatch(form.SubmitFailed{
			Target:  form.TargetProfile,
			Message: apiclient.Message(err, v.config.Messages.Message(i18n.EmployeeSaveFailed)),
		})
		return nil
	}

	v.mu.Lock()
	if v.closed || seq != v.lookupSeq {
		v.mu.Unlock()
		v.form.Dispatch(form.SubmitAbandoned{Target: form.TargetProfile})
		return nil
	}
	v.profile = &updated
	v.phase = phaseOf(updated)
	v.mu.Unlock()

	v.form.Dispatch(form.EntityReplaced{Employee: updated.Employee, Vocabulary: vocabulary})
	v.form.Dispatch(form.SubmitSucceeded{Target: form.TargetProfile, Message: v.config.Messages.Message(i18n.MemberSaved)})
	return nil
}

// SubmitStatus changes the status of the linked employee. On success only
// the current status is merged into the loaded profile; the status code
// follows the server while the note draft is kept.
func (v *View) SubmitStatus(ctx context.Context) error {
	loginID, seq, _, err := v.linked()
	if err != nil {
		return err
	}
	state, err := v.form.BeginSubmit(form.TargetStatus)
	if err != nil {
		return err
	}

	status, err := v.client.UpdateMemberStatus(ctx, loginID, state.Status)
	if err != nil {
		slog.Error("failed to update member status", "login_id", loginID, "error", err)
		v.form.Dispatch(form.SubmitFailed{
			Target:  form.TargetStatus,
			Message: apiclient.Message(err, v.config.Messages.Message(i18n.StatusUpdateFailed)),
		})
		return nil
	}

	v.mu.Lock()
	if v.closed || seq != v.lookupSeq || v.profile == nil || v.profile.Employee == nil {
		v.mu.Unlock()
		v.form.Dispatch(form.SubmitAbandoned{Target: form.TargetStatus})
		return nil
	}
	merged := v.profile.Employee.WithStatus(status)
	profile := *v.profile
	profile.Employee = &merged
	v.profile = &profile
	v.mu.Unlock()

	v.form.Dispatch(form.StatusConfirmed{Status: status.Status, Message: v.config.Messages.Message(i18n.StatusUpdated)})
	return nil
}

// Snapshot returns a copy of the view state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	snap := Snapshot{
		Phase:      v.phase,
		LoginID:    v.loginID,
		Vocabulary: append(employee.StatusVocabulary(nil), v.vocabulary...),
	}
	if v.profile != nil {
		profile := *v.profile
		if profile.Employee != nil {
			e := *profile.Employee
			profile.Employee = &e
		}
		snap.Profile = &profile
	}
	v.mu.Unlock()

	snap.Form = v.form.Snapshot()
	return snap
}

// Close tears the view down. Results of requests still in flight are dropped.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.lookupSeq++
	v.mu.Unlock()
	v.form.Close()
}

// linked returns what a submit needs, or a local error reported on the form
// when no linked employee is loaded.
func (v *View) linked() (string, uint64, employee.StatusVocabulary, error) {
	v.mu.Lock()
	closed := v.closed
	ok := v.phase == PhaseLinked && v.profile != nil && v.profile.Linked()
	var loginID string
	if ok {
		loginID = v.profile.LoginID
	}
	seq := v.lookupSeq
	vocabulary := v.vocabulary
	v.mu.Unlock()

	if closed {
		return "", 0, nil, form.ErrFormClosed
	}
	if !ok {
		v.form.Dispatch(form.Notice{Kind: form.FeedbackError, Message: v.config.Messages.Message(i18n.MemberNotLinked)})
		return "", 0, nil, ErrEmployeeNotLinked
	}
	return loginID, seq, vocabulary, nil
}

func phaseOf(profile employee.MemberProfile) Phase {
	if profile.Linked() {
		return PhaseLinked
	}
	return PhaseNotLinked
}

func (v *View) notify() {
	if v.config.OnChange != nil {
		v.config.OnChange()
	}
}
