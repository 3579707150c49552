// Package wizard implements the step-gated script wizard: it holds the
// accumulated inputs and model outputs, issues one model request at a
// time, and writes every change through to the store.
package wizard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/scriptmatch/internal/llm"
	"github.com/mark3labs/scriptmatch/internal/logger"
	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/mark3labs/scriptmatch/internal/store"
)

// Options configures a Machine.
type Options struct {
	Variant state.Variant
	Store   store.Store
	Client  llm.Client
	// Fallback substitutes static example payloads when a request fails.
	Fallback bool
	// InstructionTemplate is the path of an optional prompt fragment
	// spliced into generation requests.
	InstructionTemplate string
}

// Machine is the wizard state machine. It is safe for concurrent use; the
// lock is never held across a model call, and subscribers are called
// without it, so they may read the machine.
type Machine struct {
	mu sync.Mutex

	// Notifications raised while mu is held wait here until it is released.
	qmu      sync.Mutex
	queue    []func()
	flushing bool

	variant      state.Variant
	steps        []Step
	store        store.Store
	client       llm.Client
	fallback     bool
	templatePath string

	st *state.WizardState
	// epoch increments on Reset so results of earlier requests are dropped.
	epoch uint64
}

// New creates a machine, restoring the last saved snapshot when it is usable.
func New(opts Options) (*Machine, error) {
	if opts.Store == nil {
		return nil, errors.New("wizard: store is required")
	}
	if opts.Client == nil {
		return nil, errors.New("wizard: client is required")
	}
	switch opts.Variant {
	case "":
		opts.Variant = state.VariantInstructional
	case state.VariantInstructional, state.VariantNarrative:
	default:
		return nil, fmt.Errorf("wizard: unknown variant %q", opts.Variant)
	}

	m := &Machine{
		variant:      opts.Variant,
		steps:        Steps(opts.Variant),
		store:        opts.Store,
		client:       opts.Client,
		fallback:     opts.Fallback,
		templatePath: opts.InstructionTemplate,
	}
	m.st = m.restore()
	return m, nil
}

func (m *Machine) restore() *state.WizardState {
	saved, ok := m.store.Load()
	if !ok {
		return state.Default()
	}
	if saved.Step > len(m.steps) {
		logger.Warn("Saved step %d does not exist in the %s wizard, starting over", saved.Step, m.variant)
		return state.Default()
	}
	if saved.Analysis != nil && (saved.Analysis.Kind == state.KindNarrative) != (m.variant == state.VariantNarrative) {
		logger.Warn("Saved analysis kind %s does not match the %s wizard, starting over", saved.Analysis.Kind, m.variant)
		return state.Default()
	}

	// A request cannot survive a restart.
	saved.IsLoading = false
	for saved.Step > 1 && !m.steps[saved.Step-1].CanEnter(saved) {
		saved.Step--
	}
	logger.Debug("Restored wizard at step %d", saved.Step)
	return saved
}

// Variant returns the product variant.
func (m *Machine) Variant() state.Variant {
	return m.variant
}

// Steps returns the step list.
func (m *Machine) Steps() []Step {
	return m.steps
}

// State returns a deep copy of the current state.
func (m *Machine) State() state.WizardState {
	m.mu.Lock()
	defer m.unlock()
	return *m.st.Clone()
}

// CurrentStep returns the active step.
func (m *Machine) CurrentStep() Step {
	m.mu.Lock()
	defer m.unlock()
	return m.steps[m.st.Step-1]
}

// CanAdvance reports whether Next would succeed.
func (m *Machine) CanAdvance() bool {
	m.mu.Lock()
	defer m.unlock()
	return m.nextErrLocked() == nil
}

func (m *Machine) nextErrLocked() error {
	if m.st.Step >= len(m.steps) {
		return ErrFinalStep
	}
	next := m.steps[m.st.Step]
	if next.Terminal || !next.CanEnter(m.st) {
		return ErrStepGated
	}
	return nil
}

// Next moves forward one step if the next step's entry predicate holds.
func (m *Machine) Next() error {
	m.mu.Lock()
	defer m.unlock()
	if err := m.nextErrLocked(); err != nil {
		return err
	}
	m.st.Step++
	m.saveLocked()
	return nil
}

// Back moves back one step. It is a no-op on the first step.
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.unlock()
	if m.st.Step > 1 {
		m.st.Step--
		m.saveLocked()
	}
	return nil
}

// Reset replaces the whole state with defaults. The credential is kept.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.unlock()
	m.st = state.Default()
	m.epoch++
	logger.Info("Wizard reset")
	return m.store.Save(m.st)
}

func (m *Machine) saveLocked() {
	if err := m.store.Save(m.st); err != nil {
		logger.Error("Failed to save wizard state: %v", err)
	}
}

// CredentialPresent reports whether an API key is stored.
func (m *Machine) CredentialPresent() bool {
	_, ok := m.store.Credential()
	return ok
}

// SetCredential stores the API key.
func (m *Machine) SetCredential(key string) error {
	return m.store.SetCredential(key)
}

// ClearCredential removes the API key.
func (m *Machine) ClearCredential() error {
	return m.store.ClearCredential()
}

// Subscribe forwards store change notifications to fn. Changes caused by
// the machine's own writes are delivered after its lock is released.
func (m *Machine) Subscribe(fn func(store.Change)) (cancel func()) {
	return m.store.Subscribe(func(c store.Change) {
		m.dispatch(func() { fn(c) })
	})
}

// dispatch queues a notification and delivers it now unless the lock is
// held, in which case the holder delivers it from unlock.
func (m *Machine) dispatch(deliver func()) {
	m.qmu.Lock()
	m.queue = append(m.queue, deliver)
	m.qmu.Unlock()

	if m.mu.TryLock() {
		m.unlock()
	}
}

// unlock releases mu and delivers queued notifications in order.
func (m *Machine) unlock() {
	m.mu.Unlock()

	m.qmu.Lock()
	if m.flushing {
		// The active flush picks up anything queued meanwhile.
		m.qmu.Unlock()
		return
	}
	m.flushing = true
	for len(m.queue) > 0 {
		deliver := m.queue[0]
		m.queue = m.queue[1:]
		m.qmu.Unlock()
		deliver()
		m.qmu.Lock()
	}
	m.flushing = false
	m.qmu.Unlock()
}
