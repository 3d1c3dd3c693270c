// Package docs provides the tool answering questions about machine
// documentation. Answers are grounded on passages retrieved from the
// documentation index and generated by a chat model.
package docs

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/llm"
	"github.com/effective-security/factoryagent/pkg/llmutils"
	"github.com/effective-security/factoryagent/pkg/schema"
	"github.com/effective-security/factoryagent/pkg/search"
	"github.com/effective-security/factoryagent/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/factoryagent", "docs")

const ToolName = "QueryDocumentation"

// DefaultTopK is the number of passages retrieved per question.
const DefaultTopK = 10

// NoAnswerFound is returned when no passage clears the relevance threshold.
// The agent receives this fixed text instead of an empty answer.
const NoAnswerFound = "No answer could be found in the documentation."

const systemPrompt = "You are an assistant answering questions about factory machine documentation. " +
	"Answer only from the provided documentation passages. " +
	"If the passages do not contain the answer, say so instead of guessing."

// QueryRequest represents the tool input.
type QueryRequest struct {
	Question string `json:"question" yaml:"question" jsonschema:"title=Question,description=The documentation question in plain language"`
}

// QueryResult carries the grounded answer.
type QueryResult struct {
	Answer string `json:"answer"`
}

func (r *QueryResult) String() string {
	return r.Answer
}

// Tool answers documentation questions via retrieval and a chat model.
type Tool struct {
	name        string
	description string
	funcParams  any

	client   *search.Client
	model    llm.Model
	topK     int
	minScore float64
}

var _ tools.Tool[QueryRequest, QueryResult] = (*Tool)(nil)

// New creates the documentation question tool. topK of zero selects
// DefaultTopK, minScore of zero keeps every retrieved passage.
func New(client *search.Client, model llm.Model, topK int, minScore float64) (*Tool, error) {
	if client == nil {
		return nil, errors.New("documentation index client is not configured")
	}
	if model == nil {
		return nil, errors.New("chat model is not configured")
	}
	sc, err := schema.New(reflect.TypeOf(QueryRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Tool{
		name: ToolName,
		description: "Answers questions about the machine documentation, " +
			"such as maintenance procedures, error remedies and operating limits. " +
			"The answer is grounded on the documentation, pass the question in plain language.",
		funcParams: sc.Parameters,
		client:     client,
		model:      model,
		topK:       topK,
		minScore:   minScore,
	}, nil
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Parameters() any {
	return t.funcParams
}

// Run retrieves passages for the question, drops those below the relevance
// threshold and asks the chat model for an answer grounded on the rest.
func (t *Tool) Run(ctx context.Context, req *QueryRequest) (*QueryResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, errors.New("invalid request: question is required")
	}

	docs, err := t.client.Search(ctx, question, t.topK)
	if err != nil {
		return nil, err
	}

	passages := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Score < t.minScore {
			continue
		}
		passages = append(passages, doc.Content)
	}
	if len(passages) == 0 {
		logger.ContextKV(ctx, xlog.DEBUG,
			"question", question,
			"retrieved", len(docs),
			"reason", "no passages above threshold",
		)
		return &QueryResult{Answer: NoAnswerFound}, nil
	}

	started := time.Now()
	answer, err := t.model.Complete(ctx, systemPrompt, groundingPrompt(question, passages))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to generate answer")
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"question", question,
		"passages", len(passages),
		"elapsed", time.Since(started).String(),
	)

	return &QueryResult{Answer: strings.TrimSpace(answer)}, nil
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req QueryRequest
	if err := ljson.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// groundingPrompt assembles the user prompt from the question and the
// retained passages, each passage under a numbered header.
func groundingPrompt(question string, passages []string) string {
	var sb strings.Builder
	sb.WriteString("Answer the question using only the documentation passages below.\n\n")
	for i, p := range passages {
		fmt.Fprintf(&sb, "### Passage %d\n%s\n\n", i+1, strings.TrimSpace(p))
	}
	sb.WriteString("### Question\n")
	sb.WriteString(question)
	sb.WriteString("\n")
	return sb.String()
}
