package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const advisorSystemPrompt = `You review weekly timetables for a language school. Reply with JSON only.`

const advisorPromptTemplate = `Review this weekly timetable and reply with EXACTLY this JSON shape:

{"headline": "2-6 word summary", "risks": ["..."], "suggestions": ["..."]}

Look for:
- teachers with long unbroken runs of classes or very uneven days
- rooms that are overbooked while others sit idle
- classes with more students than the room capacity
- evening or weekend clustering that could be spread out

Rules:
- At most 3 risks and 3 suggestions, each under 80 characters
- Name the teacher, room and day you mean
- Empty lists are fine when nothing stands out

Timetable:
%s`

// Review is a model's reading of one week.
type Review struct {
	Headline    string   `json:"headline"`
	Risks       []string `json:"risks"`
	Suggestions []string `json:"suggestions"`
}

// String renders the review as plain text lines.
func (r Review) String() string {
	var sb strings.Builder
	if r.Headline != "" {
		sb.WriteString(r.Headline)
		sb.WriteString("\n")
	}
	for _, risk := range r.Risks {
		fmt.Fprintf(&sb, "  ! %s\n", risk)
	}
	for _, s := range r.Suggestions {
		fmt.Fprintf(&sb, "  > %s\n", s)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Advisor asks a model to review a formatted timetable.
type Advisor struct {
	client Client
}

// NewAdvisor creates a new Advisor with the given LLM client.
func NewAdvisor(client Client) *Advisor {
	return &Advisor{client: client}
}

// ReviewWeek sends the timetable text to the model.
func (a *Advisor) ReviewWeek(ctx context.Context, timetable string) (Review, error) {
	if strings.TrimSpace(timetable) == "" {
		return Review{}, errors.New("nothing to review")
	}
	var review Review
	err := a.client.ChatJSON(ctx, []Message{
		{Role: RoleSystem, Content: advisorSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(advisorPromptTemplate, timetable)},
	}, &review)
	if err != nil {
		return Review{}, fmt.Errorf("reviewing week: %w", err)
	}
	return review, nil
}
