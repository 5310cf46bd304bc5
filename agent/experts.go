package agent

import (
	"context"
	"fmt"

	"github.com/etnz/rsutax"
	"github.com/etnz/rsutax/docs"
	"github.com/etnz/rsutax/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Declarer computes the declaration of a fiscal year from the user's files.
type Declarer func(year int) (*rsutax.Declaration, error)

// RegimeSource returns the tax constants of a fiscal year.
type RegimeSource func(year int) (rsutax.Regime, error)

const facilitatorInstruction = `
As a facilitator you are in charge of the conversation and solving the user's request.

Learn about the expert's skill that you can get from the Tools to ask them questions.
They are at your service and 100% dedicated to you, they keep context of your previous questions.

The user sold shares received as RSUs and needs to declare them to the French tax administration.
Devise a plan of questions to ask to each experts and come up with the best response to the user's request.
Always quote the form and box numbers, and the amounts, as computed by the Advisor.
`

func newFacilitator(year int, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{
				{Text: facilitatorInstruction},
				{Text: fmt.Sprintf("The user is declaring the fiscal year %d: use it whenever a question does not name a year.", year)},
			}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search, for current tax rules.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert of the French tax law about free shares and capital gains.
		Ask the Researcher whenever you need recent or grounding information about rules, rates or forms.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert of the French personal income tax, in particular the taxation of free shares
			(actions gratuites, RSU), acquisition gains and capital gains on securities.
			Leverage Google Search to ground your assertions on official sources (impots.gouv.fr, BOFiP).
			`}}},
		},
	}
}

// NewAdvisor returns the expert computing the user's declaration.
func NewAdvisor(declare Declarer, regime RegimeSource) *Expert {
	lib := []Function{declarationFunc(declare), regimeFunc(regime), topicFunc()}
	return &Expert{
		Name: "Advisor",
		Description: `This is the tax Advisor. It computes the user's declaration from the user's broker export:
		the amounts to write in each form box, the tax estimate and the detail of every lot sold.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a tax advisor in charge of the user's RSU declaration.
			Use the Tools to compute the declaration of a fiscal year, read the tax constants used,
			and read the documentation explaining how amounts are computed.
			Never compute amounts yourself, quote the ones returned by the Tools.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

var yearParameter = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"year": {Type: genai.TypeInteger, Description: "The fiscal year, like 2024."},
	},
	Required: []string{"year"},
}

func declarationFunc(declare Declarer) *Func {
	const name = "Declaration"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Declaration computes the user's RSU declaration for a fiscal year.",
			Parameters:  yearParameter,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report: the form boxes to fill, the tax estimate and the lines sold.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			year, err := parseYear(args)
			if err != nil {
				return errorResponse(id, name, err)
			}
			d, err := declare(year)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, renderer.RenderDeclaration(d))
		},
	}
}

func regimeFunc(regime RegimeSource) *Func {
	const name = "Regime"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Regime returns the tax constants used for a fiscal year: threshold, relief brackets, rates and form boxes.",
			Parameters:  yearParameter,
			Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown table of the constants."},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			year, err := parseYear(args)
			if err != nil {
				return errorResponse(id, name, err)
			}
			r, err := regime(year)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, renderer.RenderRegime(r))
		},
	}
}

func topicFunc() *Func {
	const name = "Topic"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Topic returns a documentation topic of the tool.\n\n" + docs.Index(),
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {Type: genai.TypeString, Description: "The topic name, '*' for all of them."},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{Type: genai.TypeString, Description: "The topic in markdown."},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, ok := args["topic"].(string)
			if !ok {
				return errorResponse(id, name, fmt.Errorf("argument 'topic' is not a string as expected but %T", args["topic"]))
			}
			content, err := docs.GetTopic(topic)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, content)
		},
	}
}

// parseYear reads the 'year' argument, models send numbers as float64.
func parseYear(args map[string]any) (int, error) {
	switch y := args["year"].(type) {
	case float64:
		if y != float64(int(y)) {
			return 0, fmt.Errorf("argument 'year' must be an integer, got %v", y)
		}
		return int(y), nil
	case int:
		return y, nil
	case nil:
		return 0, fmt.Errorf("argument 'year' is missing")
	default:
		return 0, fmt.Errorf("argument 'year' is not a number as expected but %T", y)
	}
}
