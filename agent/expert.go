package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Expert represent a chat with a business expert.
type Expert struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	ModelName   string                       `json:"model_name"`
	Config      *genai.GenerateContentConfig `json:"config"`
	Library     Library
	chat        *genai.Chat
}

// Start creates the expert's chat.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// Ask sends 'parts' to the expert and runs the function calls it requests, if
// any, until it answers with text.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	if e.chat == nil {
		return nil, fmt.Errorf("expert %s is not started", e.Name)
	}
	resp, err := e.chat.Send(ctx, parts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from expert %s", e.Name)
	}
	content := resp.Candidates[0].Content
	calls := functionCalls(content)
	if len(calls) == 0 {
		return content, nil
	}
	if e.Library == nil {
		return nil, fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
	}
	// the model may ask for several calls at once, a declaration and its regime for instance.
	responses := make([]*genai.Part, 0, len(calls))
	for _, fc := range calls {
		log.Debug().Str("expert", e.Name).Str("function", fc.Name).Msg("function call")
		// errors are sent back to the model in the response.
		responses = append(responses, &genai.Part{FunctionResponse: e.Library(ctx, fc)})
	}
	return e.Ask(ctx, responses...)
}

func functionCalls(content *genai.Content) []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, p := range content.Parts {
		if p.FunctionCall != nil {
			calls = append(calls, p.FunctionCall)
		}
	}
	return calls
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
			Description: "Expert's response.",
		},
	}
}

// Call perform the call of asking this expert.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	name := e.Declaration().Name
	question, ok := args["question"].(string)
	if !ok {
		return errorResponse(id, name, fmt.Errorf("invalid question type got %T, expected string", args["question"]))
	}

	response, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return errorResponse(id, name, fmt.Errorf("something went wrong while calling the expert: %w", err))
	}

	r := text(response)
	log.Debug().Str("expert", e.Name).Str("question", question).Str("answer", r).Msg("expert answered")
	return outputResponse(id, name, r)
}
