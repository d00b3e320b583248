// Package crew runs fixed sequential chains of role-scoped LLM prompts.
// Each task is executed by an agent persona; completed task outputs feed the
// context of later tasks that reference them.
package crew

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

// Completer is the slice of the LLM manager the crews need
type Completer interface {
	Complete(ctx context.Context, req models.CompletionRequest) (string, error)
}

// Agent is a persona that frames every prompt it executes
type Agent struct {
	Role      string
	Goal      string
	Backstory string
}

func (a *Agent) systemPrompt() string {
	return fmt.Sprintf("You are %s.\n%s\nYour personal goal is: %s", a.Role, a.Backstory, a.Goal)
}

// Task is one stage of a crew. Context lists the tasks whose outputs are
// appended to this task's prompt; they must appear earlier in the chain.
type Task struct {
	Name           string
	Description    string
	ExpectedOutput string
	Agent          *Agent
	Context        []*Task

	output string
}

// Output returns the raw completion produced for this task. Empty until the
// crew has run.
func (t *Task) Output() string {
	return t.output
}

func (t *Task) buildPrompt() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(t.Description))

	if len(t.Context) > 0 {
		b.WriteString("\n\nThis is the context you are working with:")
		for _, dep := range t.Context {
			b.WriteString("\n\n----------\n")
			b.WriteString(dep.Output())
		}
	}

	if t.ExpectedOutput != "" {
		b.WriteString("\n\nThis is the expected criteria for your final answer: ")
		b.WriteString(t.ExpectedOutput)
		b.WriteString("\nYou MUST return the actual complete content as the final answer, not a summary.")
	}

	return b.String()
}

// Crew executes its tasks strictly in order
type Crew struct {
	Name  string
	Tasks []*Task

	llm    Completer
	logger *logrus.Logger
}

func New(name string, completer Completer, tasks ...*Task) *Crew {
	return &Crew{
		Name:   name,
		Tasks:  tasks,
		llm:    completer,
		logger: utils.GetLogger(),
	}
}

// Kickoff runs the chain and returns the final task's output. Any stage
// failure aborts the whole chain; there is no partial-result recovery.
func (c *Crew) Kickoff(ctx context.Context) (string, error) {
	var last string

	for i, task := range c.Tasks {
		c.logger.WithFields(logrus.Fields{
			"crew":  c.Name,
			"task":  task.Name,
			"stage": fmt.Sprintf("%d/%d", i+1, len(c.Tasks)),
			"agent": task.Agent.Role,
		}).Info("Executing crew task")

		output, err := c.llm.Complete(ctx, models.CompletionRequest{
			System: task.Agent.systemPrompt(),
			Prompt: task.buildPrompt(),
		})
		if err != nil {
			return "", fmt.Errorf("crew %s task %s failed: %w", c.Name, task.Name, err)
		}

		task.output = output
		last = output

		c.logger.WithFields(logrus.Fields{
			"crew":        c.Name,
			"task":        task.Name,
			"output_size": len(output),
		}).Debug("Crew task completed")
	}

	return last, nil
}
