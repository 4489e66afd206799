package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/anthropics/claude-skills-go/internal/config"
	"github.com/anthropics/claude-skills-go/internal/engine"
	"github.com/anthropics/claude-skills-go/internal/rules"
	"github.com/anthropics/claude-skills-go/internal/skills"
)

// BlockError is a deliberate block decision. It is the only condition under
// which hook mode exits non-zero.
type BlockError struct {
	Skill  string
	Reason string
}

func (e *BlockError) Error() string {
	return e.Reason
}

// Runner holds everything one hook invocation needs: the merged settings,
// loaded skills, compiled engine, and state/audit storage.
type Runner struct {
	cwd      string
	settings *config.Settings
	skills   []skills.Skill
	eng      *engine.Engine
	store    *StateStore
	stateDir string
}

// NewRunner loads settings, skills, and rules for the project at cwd and
// compiles the activation engine. Standalone rules come first so they win
// priority ties over rules compiled from skill frontmatter.
func NewRunner(cwd string) (*Runner, error) {
	settings, err := config.LoadSettings(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	sk, err := skills.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}

	rs, err := rules.LoadAll(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	rs = append(rs, skills.Rules(sk)...)

	limits := engine.Limits{
		MaxActivations: settings.Skills.MaxActivations,
		MinScore:       settings.Skills.MinScore,
		Disabled:       settings.Skills.Disabled,
	}

	stateDir, err := DefaultStateDir()
	if err != nil {
		return nil, err
	}

	return &Runner{
		cwd:      cwd,
		settings: settings,
		skills:   sk,
		eng:      engine.New(rs, limits),
		store:    NewStateStore(stateDir, cwd),
		stateDir: stateDir,
	}, nil
}

// Run is the hook entry point: decode the event, dispatch, encode the
// response. It never returns a non-zero exit code for internal errors;
// those are logged and an empty response is written. A *BlockError yields
// exit 2 with the reason on stderr.
func Run(eventName, cwd string, stdin io.Reader, stdout, stderr io.Writer) int {
	emit := func(out *Output) {
		if out == nil {
			out = &Output{}
		}
		enc := json.NewEncoder(stdout)
		if err := enc.Encode(out); err != nil {
			log.Errorf("encoding hook output: %v", err)
		}
	}

	var ev Event
	if err := json.NewDecoder(stdin).Decode(&ev); err != nil {
		log.Warnf("malformed hook event: %v", err)
		emit(nil)
		return 0
	}
	if ev.CWD == "" {
		ev.CWD = cwd
	}

	r, err := NewRunner(ev.CWD)
	if err != nil {
		log.Errorf("initializing hook: %v", err)
		emit(nil)
		return 0
	}

	out, err := r.Handle(eventName, &ev)
	if err != nil {
		var block *BlockError
		if errors.As(err, &block) {
			fmt.Fprintln(stderr, block.Reason)
			return 2
		}
		log.Errorf("handling %s: %v", eventName, err)
		emit(nil)
		return 0
	}

	emit(out)
	return 0
}

// Handle dispatches one event to its handler.
func (r *Runner) Handle(eventName string, ev *Event) (*Output, error) {
	if !config.BoolVal(r.settings.Skills.Enabled, true) {
		return &Output{}, nil
	}

	switch eventName {
	case EventUserPromptSubmit:
		return r.handlePrompt(ev)
	case EventPreToolUse:
		return r.handleToolUse(ev)
	case EventSessionStart:
		return r.handleSessionStart(ev)
	default:
		return nil, fmt.Errorf("unknown hook event %q", eventName)
	}
}

func (r *Runner) handlePrompt(ev *Event) (*Output, error) {
	acts := r.eng.Match(engine.Query{Prompt: ev.Prompt})
	return r.respond(ev, EventUserPromptSubmit, acts)
}

func (r *Runner) handleToolUse(ev *Event) (*Output, error) {
	files := ExtractPaths(ev.ToolInput)
	if len(files) == 0 {
		return &Output{}, nil
	}

	acts := r.eng.Match(engine.Query{Files: files})

	for _, act := range acts {
		if r.settings.Skills.Block[act.Rule.Skill] {
			return nil, &BlockError{
				Skill:  act.Rule.Skill,
				Reason: fmt.Sprintf("blocked by skill %q (matched %s)", act.Rule.Skill, strings.Join(act.MatchedPaths, ", ")),
			}
		}
	}

	return r.respond(ev, EventPreToolUse, acts)
}

func (r *Runner) handleSessionStart(ev *Event) (*Output, error) {
	// Fresh session: clear any suppression state left from a previous run
	// with the same session id.
	if ev.SessionID != "" {
		err := r.store.WithLock(ev.SessionID, func() error {
			return r.store.Save(&SessionState{
				SessionID: ev.SessionID,
				CWD:       ev.CWD,
				Injected:  make(map[string]time.Time),
			})
		})
		if err != nil {
			log.Warnf("resetting session state: %v", err)
		}
	}

	names := make([]string, 0, len(r.skills))
	for _, s := range r.skills {
		names = append(names, s.Name)
	}
	sort.Strings(names)

	out := &Output{HookSpecificOutput: &SpecificOutput{HookEventName: EventSessionStart}}
	if len(names) > 0 {
		out.HookSpecificOutput.AdditionalContext = fmt.Sprintf(
			"Skills available in this project: %s. Matching guidance is injected automatically.",
			strings.Join(names, ", "))
	}
	return out, nil
}

// respond filters activations through per-session suppression, renders the
// surviving skills' guidance, records the audit trail, and builds the
// response.
func (r *Runner) respond(ev *Event, eventName string, acts []engine.Activation) (*Output, error) {
	if len(acts) == 0 {
		return &Output{}, nil
	}

	fresh := acts
	if ev.SessionID != "" {
		err := r.store.WithLock(ev.SessionID, func() error {
			state, err := r.store.Load(ev.SessionID, ev.CWD)
			if err != nil {
				return err
			}
			fresh = make([]engine.Activation, 0, len(acts))
			for _, act := range acts {
				if _, done := state.Injected[act.Rule.Skill]; done {
					continue
				}
				state.Injected[act.Rule.Skill] = time.Now()
				fresh = append(fresh, act)
			}
			return r.store.Save(state)
		})
		if err != nil {
			// Suppression is best-effort; inject everything rather than
			// losing guidance.
			log.Warnf("session suppression unavailable: %v", err)
			fresh = acts
		}
	}

	if len(fresh) == 0 {
		return &Output{}, nil
	}

	var sections []string
	var records []AuditRecord
	for _, act := range fresh {
		records = append(records, AuditRecord{
			Time:      time.Now(),
			SessionID: ev.SessionID,
			Event:     eventName,
			Skill:     act.Rule.Skill,
			Source:    act.Rule.Source,
			Score:     act.Score,
		})

		s, ok := skills.ByName(r.skills, act.Rule.Skill)
		if !ok {
			// Rule names a skill with no bundle on disk; surface the name
			// so the user notices.
			log.Debugf("rule matched unknown skill %q", act.Rule.Skill)
			continue
		}
		sections = append(sections, skills.Render(s))
	}

	if err := AppendAudit(r.stateDir, records); err != nil {
		log.Warnf("writing activation audit: %v", err)
	}

	if len(sections) == 0 {
		return &Output{}, nil
	}
	return &Output{
		HookSpecificOutput: &SpecificOutput{
			HookEventName:     eventName,
			AdditionalContext: strings.Join(sections, "\n\n---\n\n"),
		},
	}, nil
}
