package prompts

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptText(t *testing.T, res *sdkmcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, res.Messages, 1)
	text, ok := res.Messages[0].Content.(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleTriage(t *testing.T) {
	handler := HandleTriage(&Config{IgnoreHeaderValues: []string{"date", "etag"}})

	res, err := handler(context.Background(), &sdkmcp.GetPromptRequest{
		Params: &sdkmcp.GetPromptParams{
			Arguments: map[string]string{"api_description": "api.yaml", "log": "run.har"},
		},
	})
	require.NoError(t, err)

	text := promptText(t, res)
	assert.Contains(t, text, `harcheck_validate(api_description="api.yaml", log="run.har", only_failures=true)`)
	assert.Contains(t, text, "date, etag")
	assert.Contains(t, text, "`Not found!`")
}

func TestHandleTriage_NoArguments(t *testing.T) {
	handler := HandleTriage(&Config{})

	res, err := handler(context.Background(), &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{}})
	require.NoError(t, err)

	text := promptText(t, res)
	assert.Contains(t, text, `api_description="<api_description>"`)
	assert.NotContains(t, text, "Volatile Headers")
}
