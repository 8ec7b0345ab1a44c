package roadmap

import (
	"strings"

	"github.com/limbo/questboard/pkg/entity"
)

var timeframeSpans = map[entity.Timeframe]string{
	entity.TimeframeShort:  "1-3 months",
	entity.TimeframeMedium: "3-12 months",
	entity.TimeframeLong:   "1-5 years",
}

const responseShape = `{
  "overview": "two or three sentences on the approach",
  "milestones": [
    {
      "title": "milestone title",
      "description": "what the milestone achieves",
      "duration": "e.g. 2 weeks",
      "tasks": [
        {
          "title": "task title",
          "description": "what to do",
          "priority": "high|medium|low",
          "difficulty": "easy|normal|hard",
          "estimated_time": "e.g. 3 hours",
          "resources": ["links or books"]
        }
      ]
    }
  ],
  "weekly_plan": [{"week": 1, "focus": "weekly focus", "tasks": ["task"]}],
  "monthly_goals": [{"month": 1, "focus": "monthly focus", "targets": ["target"]}],
  "resources": ["resource"],
  "tips": ["tip"],
  "challenges": ["likely obstacle"],
  "success_metrics": ["metric"]
}`

// Prompt builds the model instruction for goal.
func Prompt(goal *entity.Goal) string {
	description := "not given"
	if goal.Description != nil && strings.TrimSpace(*goal.Description) != "" {
		description = *goal.Description
	}
	span, ok := timeframeSpans[goal.Timeframe]
	if !ok {
		span = "unspecified"
	}

	var b strings.Builder
	b.WriteString("Plan a step by step roadmap for this personal goal.\n\n")
	b.WriteString("Goal: " + goal.Title + "\n")
	b.WriteString("Details: " + description + "\n")
	b.WriteString("Category: " + goal.Category + "\n")
	b.WriteString("Timeframe: " + string(goal.Timeframe) + " (" + span + ")\n\n")
	b.WriteString("Answer with a single JSON object of this shape and nothing else:\n")
	b.WriteString(responseShape)
	b.WriteString("\n\nKeep milestones realistic for the timeframe. The first milestone's tasks must be concrete actions that can start this week.")
	return b.String()
}
