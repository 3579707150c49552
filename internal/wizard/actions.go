package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/scriptmatch/internal/llm"
	"github.com/mark3labs/scriptmatch/internal/logger"
	"github.com/mark3labs/scriptmatch/internal/media"
	"github.com/mark3labs/scriptmatch/internal/prompt"
	"github.com/mark3labs/scriptmatch/internal/state"
)

// call is one outstanding model request.
type call struct {
	req   *llm.Request
	key   string
	epoch uint64
}

// startLocked runs the pre-flight checks in order (busy, validation,
// credential) and marks the state as loading. Nothing is sent to the
// model when it fails.
func (m *Machine) startLocked(build func() (*llm.Request, error)) (*call, error) {
	if m.st.IsLoading {
		return nil, ErrBusy
	}
	req, err := build()
	if err != nil {
		return nil, err
	}
	key, ok := m.store.Credential()
	if !ok {
		return nil, llm.ErrCredentialMissing
	}

	m.st.IsLoading = true
	m.st.Error = ""
	m.saveLocked()
	logger.Info("Sending %s request %s", req.Name, req.ID)
	return &call{req: req, key: key, epoch: m.epoch}, nil
}

// run performs the call without holding the lock and settles the result.
// apply must either mutate the state completely or return an error without
// touching it. fallback stores the static payload.
func (m *Machine) run(ctx context.Context, c *call, apply func(*llm.Response) error, fallback func(), failMsg string) {
	resp, err := m.client.Complete(ctx, c.key, c.req)

	m.mu.Lock()
	defer m.unlock()
	if c.epoch != m.epoch {
		logger.Debug("Discarding %s result %s issued before reset", c.req.Name, c.req.ID)
		return
	}

	m.st.IsLoading = false
	if err == nil {
		err = apply(resp)
	}
	switch {
	case err == nil:
		logger.Info("%s request %s completed in %s", c.req.Name, c.req.ID, resp.Duration)
	case m.fallback:
		logger.Warn("%s request %s failed, using fallback payload: %v", c.req.Name, c.req.ID, err)
		fallback()
	default:
		logger.Error("%s request %s failed: %v", c.req.Name, c.req.ID, err)
		m.st.Error = failMsg
	}
	m.saveLocked()
}

// Analyze asks the model to break down the reference script. On success
// the wizard moves to the settings step. Model failures are recorded in the
// state's error field and are not returned.
func (m *Machine) Analyze(ctx context.Context) error {
	m.mu.Lock()
	c, err := m.startLocked(func() (*llm.Request, error) {
		in := prompt.AnalysisInput{Script: m.st.Inputs.ReferenceScript}
		if m.variant == state.VariantInstructional && m.st.Inputs.Thumbnail != "" {
			img, err := media.ParseDataURI(m.st.Inputs.Thumbnail)
			if err != nil {
				return nil, fmt.Errorf("thumbnail: %w", err)
			}
			in.Thumbnail = img
		}
		return prompt.BuildAnalysis(m.variant, in)
	})
	m.unlock()
	if err != nil {
		return err
	}

	kind := state.AnalysisKind(c.req.Kind)
	m.run(ctx, c, func(resp *llm.Response) error {
		result, err := state.DecodeAnalysis(kind, resp.JSON, state.SourceLLM)
		if err != nil {
			return fmt.Errorf("%w: %w", llm.ErrTransport, err)
		}
		m.st.Analysis = result
		m.st.TitleKeywords = nil
		m.st.Step = 2
		return nil
	}, func() {
		m.st.Analysis = FallbackAnalysis(kind)
		m.st.TitleKeywords = nil
		m.st.Step = 2
	}, MsgAnalysisFailed)
	return nil
}

// Generate drafts the new script. On success the wizard moves to the final
// step.
func (m *Machine) Generate(ctx context.Context) error {
	m.mu.Lock()
	c, err := m.startLocked(func() (*llm.Request, error) {
		if m.st.Analysis == nil {
			return nil, fmt.Errorf("%w: analysis", ErrMissingSelection)
		}
		in := prompt.GenerationInputFrom(m.st)
		in.InstructionTemplate = m.loadTemplate()
		return prompt.BuildGeneration(m.variant, in)
	})
	m.unlock()
	if err != nil {
		return err
	}

	final := len(m.steps)
	m.run(ctx, c, func(resp *llm.Response) error {
		artifact, err := m.decodeArtifact(resp)
		if err != nil {
			return err
		}
		m.st.Artifact = artifact
		m.st.Step = final
		return nil
	}, func() {
		m.st.Artifact = FallbackArtifact(m.variant)
		m.st.Step = final
	}, MsgGenerationFailed)
	return nil
}

func (m *Machine) decodeArtifact(resp *llm.Response) (*state.Artifact, error) {
	if m.variant == state.VariantNarrative {
		script := strings.TrimSpace(resp.Text)
		if script == "" {
			return nil, fmt.Errorf("%w: empty script", llm.ErrTransport)
		}
		return &state.Artifact{Script: script, Source: state.SourceLLM}, nil
	}

	payload, err := prompt.DecodeScriptPayload(resp.JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", llm.ErrTransport, err)
	}
	if strings.TrimSpace(payload.Script) == "" {
		return nil, fmt.Errorf("%w: empty script", llm.ErrTransport)
	}
	return &state.Artifact{
		Script:          payload.Script,
		ThumbnailPrompt: payload.ThumbnailPrompt,
		Source:          state.SourceLLM,
	}, nil
}

// loadTemplate reads the instruction template, if one is configured. A
// missing template only loses the extra guidance.
func (m *Machine) loadTemplate() string {
	if m.templatePath == "" {
		return ""
	}
	tmpl, err := prompt.LoadFromFile(m.templatePath)
	if err != nil {
		logger.Warn("Ignoring instruction template: %v", err)
		return ""
	}
	return tmpl
}

// SuggestKeywords asks for SEO keyword tiers for the chosen title.
func (m *Machine) SuggestKeywords(ctx context.Context) error {
	m.mu.Lock()
	c, err := m.startLocked(func() (*llm.Request, error) {
		return prompt.BuildTitleKeywords(m.st.Inputs.Title)
	})
	m.unlock()
	if err != nil {
		return err
	}

	m.run(ctx, c, func(resp *llm.Response) error {
		var kw state.SEOKeywords
		if err := json.Unmarshal(resp.JSON, &kw); err != nil {
			return fmt.Errorf("%w: %w", llm.ErrTransport, err)
		}
		m.st.TitleKeywords = &kw
		return nil
	}, func() {
		m.st.TitleKeywords = FallbackKeywords()
	}, MsgKeywordsFailed)
	return nil
}
