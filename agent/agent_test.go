package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/rsutax"
	"github.com/etnz/rsutax/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func declare2024(year int) (*rsutax.Declaration, error) {
	regime, err := rsutax.DefaultRegimes().For(year)
	if err != nil {
		return nil, err
	}
	lines := []rsutax.TransactionLine{{
		Ref:       "lot 1",
		VestDate:  date.New(2021, 3, 1),
		SaleDate:  date.New(2024, 3, 1),
		Shares:    rsutax.Q(100),
		VestValue: rsutax.EUR(1000),
		CostBasis: rsutax.EUR(0),
		SalePrice: rsutax.EUR(1500),
		Fees:      rsutax.EUR(0),
	}}
	return rsutax.NewDeclaration(lines, year, regime)
}

func advisorLibrary() Library {
	return NewAdvisor(declare2024, rsutax.DefaultRegimes().For).Library
}

func call(lib Library, name string, args map[string]any) *genai.FunctionResponse {
	return lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
}

func TestAdvisor_Declaration(t *testing.T) {
	resp := call(advisorLibrary(), "Declaration", map[string]any{"year": float64(2024)})

	require.NotContains(t, resp.Response, "error")
	assert.Equal(t, "Declaration", resp.Name)
	assert.Equal(t, "1", resp.ID)
	assert.Contains(t, resp.Response["output"], "| 2042-C | 1TZ |")
}

func TestAdvisor_Errors(t *testing.T) {
	failing := NewAdvisor(
		func(int) (*rsutax.Declaration, error) { return nil, errors.New("no export file") },
		rsutax.DefaultRegimes().For,
	).Library

	testCases := []struct {
		name    string
		lib     Library
		fn      string
		args    map[string]any
		wantErr string
	}{
		{"missing year", advisorLibrary(), "Declaration", map[string]any{}, "argument 'year' is missing"},
		{"fractional year", advisorLibrary(), "Declaration", map[string]any{"year": 2024.5}, "must be an integer"},
		{"string year", advisorLibrary(), "Regime", map[string]any{"year": "2024"}, "not a number"},
		{"unknown regime", advisorLibrary(), "Regime", map[string]any{"year": float64(1999)}, "fiscal year 1999"},
		{"declarer error", failing, "Declaration", map[string]any{"year": float64(2024)}, "no export file"},
		{"unknown topic", advisorLibrary(), "Topic", map[string]any{"topic": "nope"}, `topic "nope" not found`},
		{"unknown function", advisorLibrary(), "Delete", nil, "unknown function Delete"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(tc.lib, tc.fn, tc.args)
			assert.Contains(t, resp.Response["error"], tc.wantErr)
		})
	}
}

func TestAdvisor_RegimeAndTopic(t *testing.T) {
	lib := advisorLibrary()

	resp := call(lib, "Regime", map[string]any{"year": float64(2025)})
	assert.Contains(t, resp.Response["output"], "# Tax regime for 2025")

	resp = call(lib, "Topic", map[string]any{"topic": "netting"})
	assert.Contains(t, resp.Response["output"], "# Acquisition gain, relief and netting")
}

func TestNew(t *testing.T) {
	experts := []*Expert{NewResearcher(), NewAdvisor(declare2024, rsutax.DefaultRegimes().For)}
	a := New(nil, nil, 2024, experts...)

	decls := a.Facilitator.Config.Tools[0].FunctionDeclarations
	require.Len(t, decls, 2)
	assert.Equal(t, "Researcher", decls[0].Name)
	assert.Equal(t, "Advisor", decls[1].Name)

	// the session knows which year is declared.
	instructions := a.Facilitator.Config.SystemInstruction.Parts
	require.Len(t, instructions, 2)
	assert.Contains(t, instructions[1].Text, "fiscal year 2024")

	_, err := a.Facilitator.Ask(context.Background(), &genai.Part{Text: "hello"})
	assert.ErrorContains(t, err, "not started")
}

func TestText(t *testing.T) {
	content := &genai.Content{Parts: []*genai.Part{
		{Text: "thinking about boxes", Thought: true},
		{Text: "Fill box 1TZ."},
		{FunctionCall: &genai.FunctionCall{Name: "Declaration"}},
		{Text: "Fill box 3VG."},
	}}
	assert.Equal(t, "Fill box 1TZ.\nFill box 3VG.", text(content))
}

func TestFunctionCalls(t *testing.T) {
	content := &genai.Content{Parts: []*genai.Part{
		{FunctionCall: &genai.FunctionCall{Name: "Declaration"}},
		{Text: "and"},
		{FunctionCall: &genai.FunctionCall{Name: "Regime"}},
	}}
	calls := functionCalls(content)
	require.Len(t, calls, 2)
	assert.Equal(t, "Declaration", calls[0].Name)
	assert.Equal(t, "Regime", calls[1].Name)
	assert.Empty(t, functionCalls(&genai.Content{Parts: []*genai.Part{{Text: "done"}}}))
}
