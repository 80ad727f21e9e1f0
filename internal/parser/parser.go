package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TerminallyLazy/kanban-zero/internal/task"
)

const parsePrompt = `You are a task parser for a Kanban board. Parse the user's input and extract:

1. **title**: A clean, concise task title (imperative form, e.g., "Fix auth bug" not "Fixing auth bug")
2. **energy**: Which energy column fits best:
   - "hyperfocus" - Deep work, complex, requires concentration (>30 min)
   - "quick_win" - Small tasks, quick dopamine hits (<15 min)
   - "low_energy" - Mindless but useful (docs, cleanup, admin)
3. **tags**: 1-3 relevant lowercase tags (e.g., ["auth", "bug", "backend"])

Respond ONLY with valid JSON:
{"title": "...", "energy": "...", "tags": ["...", "..."]}

User input: %s`

const maxTags = 5

// Completer is the external text-completion dependency. Exactly one call is
// made per parse; there are no retries.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TaskParser turns free-text input into a structured classification. Any
// failure along the way collapses into the deterministic fallback, so task
// creation never blocks on the completion service.
type TaskParser struct {
	completer Completer
	timeout   time.Duration
}

func New(completer Completer, timeout time.Duration) *TaskParser {
	return &TaskParser{
		completer: completer,
		timeout:   timeout,
	}
}

var _ task.Parser = (*TaskParser)(nil)

func (p *TaskParser) Parse(ctx context.Context, rawInput string, override *task.EnergyColumn) task.ParseResult {
	result, err := p.parse(ctx, rawInput, override)
	if err != nil {
		slog.WarnContext(ctx, "task classification failed, using fallback", "error", err)
		energy := task.ColumnQuickWin
		if override != nil {
			energy = *override
		}
		return task.ParseResult{
			Title:    rawInput,
			Energy:   energy,
			Tags:     []string{},
			Fallback: true,
		}
	}
	return result
}

// parseResponse is the strict shape expected from the completion service.
// tags tolerates a bare string in place of a list; everything else that
// deviates fails the decode.
type parseResponse struct {
	Title  string  `json:"title"`
	Energy string  `json:"energy"`
	Tags   tagList `json:"tags"`
}

type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = []string{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

func (p *TaskParser) parse(ctx context.Context, rawInput string, override *task.EnergyColumn) (task.ParseResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	text, err := p.completer.Complete(ctx, fmt.Sprintf(parsePrompt, rawInput))
	if err != nil {
		return task.ParseResult{}, fmt.Errorf("completion call failed: %w", err)
	}

	var resp parseResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return task.ParseResult{}, fmt.Errorf("malformed completion response: %w", err)
	}

	// An explicit override short-circuits energy resolution entirely: the
	// classifier's energy value is ignored, not validated, and a bad enum
	// does not cost us the parsed title and tags.
	energy := task.ColumnQuickWin
	switch {
	case override != nil:
		energy = *override
	case resp.Energy != "":
		parsed := task.EnergyColumn(resp.Energy)
		// Shipped is never a valid classifier output.
		if !parsed.Active() {
			return task.ParseResult{}, fmt.Errorf("invalid energy value %q", resp.Energy)
		}
		energy = parsed
	}

	title := resp.Title
	if title == "" {
		title = rawInput
	}

	tags := resp.Tags
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(t)))
	}

	return task.ParseResult{
		Title:  title,
		Energy: energy,
		Tags:   normalized,
	}, nil
}
