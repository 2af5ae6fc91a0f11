package agent

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// maxCallRounds bounds the function calls an expert can chain before answering.
const maxCallRounds = 8

// Expert is a chat with a model specialized by its system instruction and tools.
//
// Other experts call it as a function named after it, with a single question.
type Expert struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	ModelName   string                       `json:"model_name"`
	Config      *genai.GenerateContentConfig `json:"config"`
	Library     Library
	chat        *genai.Chat
}

// Start opens the expert's chat.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// Ask sends parts to the expert and returns its answer.
//
// The function calls the model makes on the way are served by the expert's library,
// all calls of a turn are answered together.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	if e.chat == nil {
		return nil, fmt.Errorf("expert %s is not started", e.Name)
	}
	for range maxCallRounds {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, fmt.Errorf("no response from expert %s", e.Name)
		}
		content := resp.Candidates[0].Content

		var responses []*genai.Part
		for _, p := range content.Parts {
			if p.FunctionCall == nil {
				continue
			}
			if e.Library == nil {
				return nil, fmt.Errorf("expert %s cannot call %s, it has no functions", e.Name, p.FunctionCall.Name)
			}
			log.Printf("function-call expert=%q function=%q", e.Name, p.FunctionCall.Name)
			responses = append(responses, &genai.Part{FunctionResponse: e.Library(ctx, p.FunctionCall)})
		}
		if len(responses) == 0 {
			return content, nil
		}
		parts = responses
	}
	return nil, fmt.Errorf("expert %s made more than %d rounds of function calls", e.Name, maxCallRounds)
}

// Declaration returns the function declaration to ask this expert.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {
					Type:        genai.TypeString,
					Description: "The question to ask the expert.",
				},
			},
			Required: []string{"question"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "The expert's answer, in markdown.",
		},
	}
}

// Call asks the question in args to the expert.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, ok := args["question"].(string)
	if !ok {
		return failure(id, e.Name, fmt.Errorf("invalid question: got %T, want a string", args["question"]))
	}
	content, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return failure(id, e.Name, fmt.Errorf("expert %s failed to answer: %w", e.Name, err))
	}
	answer := text(content)
	log.Printf("expert-answered expert=%q question=%q answer-length=%d", e.Name, question, len(answer))
	return success(id, e.Name, answer)
}
